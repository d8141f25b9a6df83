package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/studyhall/studyhall-lms/internal/access"
	"github.com/studyhall/studyhall-lms/internal/attempt"
	"github.com/studyhall/studyhall-lms/internal/catalog"
)

// fakeCatalog embeds the Store interface so each test only overrides what it
// touches; calling anything else panics, which is what we want.
type fakeCatalog struct {
	catalog.Store

	subjects  map[int64]catalog.Subject
	users     map[int64]catalog.User
	groups    map[int64]catalog.StudyGroup
	schedules []catalog.Schedule
	hashes    map[string]string // username -> password hash
}

func (f *fakeCatalog) GetSubject(_ context.Context, id int64) (catalog.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return catalog.Subject{}, catalog.ErrNotFound
	}
	return s, nil
}

func (f *fakeCatalog) GetUser(_ context.Context, id int64) (catalog.User, error) {
	u, ok := f.users[id]
	if !ok {
		return catalog.User{}, catalog.ErrNotFound
	}
	return u, nil
}

func (f *fakeCatalog) GetGroup(_ context.Context, id int64) (catalog.StudyGroup, error) {
	g, ok := f.groups[id]
	if !ok {
		return catalog.StudyGroup{}, catalog.ErrNotFound
	}
	return g, nil
}

func (f *fakeCatalog) ListModulesBySubject(_ context.Context, _ int64) ([]catalog.Module, error) {
	return nil, nil
}

func (f *fakeCatalog) GetUserByUsername(_ context.Context, username string) (catalog.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return catalog.User{}, catalog.ErrNotFound
}

func (f *fakeCatalog) CreateUser(_ context.Context, u catalog.User, hash string) (catalog.User, error) {
	if _, err := f.GetUserByUsername(context.Background(), u.Username); err == nil {
		return catalog.User{}, catalog.ErrConflict
	}
	u.ID = int64(len(f.users) + 1)
	if f.users == nil {
		f.users = map[int64]catalog.User{}
	}
	f.users[u.ID] = u
	if f.hashes == nil {
		f.hashes = map[string]string{}
	}
	f.hashes[u.Username] = hash
	return u, nil
}

func (f *fakeCatalog) UpdateUser(_ context.Context, u catalog.User, hash string) error {
	if _, ok := f.users[u.ID]; !ok {
		return catalog.ErrNotFound
	}
	f.users[u.ID] = u
	if hash != "" {
		f.hashes[u.Username] = hash
	}
	return nil
}

func (f *fakeCatalog) CreateSchedule(_ context.Context, sc catalog.Schedule) (catalog.Schedule, error) {
	for _, have := range f.schedules {
		if have.GroupID == sc.GroupID && have.DayOfWeek == sc.DayOfWeek && have.Time == sc.Time {
			return catalog.Schedule{}, catalog.ErrConflict
		}
	}
	sc.ID = int64(len(f.schedules) + 1)
	f.schedules = append(f.schedules, sc)
	return sc, nil
}

type fakeAttemptStore struct {
	key      attempt.TestKey
	attempts []attempt.Attempt
}

func (f *fakeAttemptStore) TestKey(_ context.Context, testID int64) (attempt.TestKey, error) {
	if testID != f.key.ID {
		return attempt.TestKey{}, attempt.ErrTestNotFound
	}
	return f.key, nil
}

func (f *fakeAttemptStore) CountByUserTest(_ context.Context, userID, testID int64) (int, error) {
	n := 0
	for _, a := range f.attempts {
		if a.UserID == userID && a.TestID == testID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAttemptStore) LastScore(_ context.Context, userID, testID int64) (float64, bool, error) {
	for i := len(f.attempts) - 1; i >= 0; i-- {
		if f.attempts[i].UserID == userID && f.attempts[i].TestID == testID {
			return f.attempts[i].Score, true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeAttemptStore) Insert(_ context.Context, a attempt.Attempt) error {
	f.attempts = append(f.attempts, a)
	return nil
}

func asUser(r *http.Request, userID int64, role access.Role) *http.Request {
	ident := access.Identity{UserID: userID, Role: role}
	return r.WithContext(access.WithIdentity(r.Context(), ident))
}

func newTestRouter(register func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	register(r)
	return r
}

func int64ptr(v int64) *int64 { return &v }

func TestGetSubjectDeniedForOtherGroup(t *testing.T) {
	store := &fakeCatalog{
		subjects: map[int64]catalog.Subject{5: {ID: 5, Name: "Physics", GroupID: 2}},
		users:    map[int64]catalog.User{10: {ID: 10, Role: access.RoleStudent, StudyGroupID: int64ptr(1)}},
	}
	h := newTestRouter(func(r chi.Router) {
		r.Get("/subjects/{subjectID}", GetSubjectHandler(store))
	})

	req := asUser(httptest.NewRequest("GET", "/subjects/5", nil), 10, access.RoleStudent)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "access denied" {
		t.Fatalf("error = %q, want access denied", body["error"])
	}
}

func TestGetSubjectAdminBypassesGroupCheck(t *testing.T) {
	store := &fakeCatalog{
		subjects: map[int64]catalog.Subject{5: {ID: 5, Name: "Physics", GroupID: 2}},
		users:    map[int64]catalog.User{1: {ID: 1, Role: access.RoleAdmin}},
	}
	h := newTestRouter(func(r chi.Router) {
		r.Get("/subjects/{subjectID}", GetSubjectHandler(store))
	})

	req := asUser(httptest.NewRequest("GET", "/subjects/5", nil), 1, access.RoleAdmin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitAttemptScoresAndCounts(t *testing.T) {
	st := &fakeAttemptStore{key: attempt.TestKey{
		ID:            7,
		AttemptsLimit: 3,
		Questions: []attempt.QuestionKey{
			{ID: 1, Correct: map[int64]bool{11: true}},
			{ID: 2, Correct: map[int64]bool{22: true}},
		},
	}}
	eng := attempt.NewEngine(st)
	h := newTestRouter(func(r chi.Router) {
		r.Post("/tests/{testID}/attempts", SubmitAttemptHandler(eng))
	})

	body := `{"answers": {"1": 11, "2": 99}}`
	req := asUser(httptest.NewRequest("POST", "/tests/7/attempts", strings.NewReader(body)), 10, access.RoleStudent)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var res attempt.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Score != 50.0 {
		t.Fatalf("score = %v, want 50", res.Score)
	}
	if res.AttemptsLeft != 2 {
		t.Fatalf("attempts left = %d, want 2", res.AttemptsLeft)
	}
}

func TestSubmitAttemptExhaustedReturnsConflict(t *testing.T) {
	st := &fakeAttemptStore{key: attempt.TestKey{
		ID:            7,
		AttemptsLimit: 1,
		Questions:     []attempt.QuestionKey{{ID: 1, Correct: map[int64]bool{11: true}}},
	}}
	eng := attempt.NewEngine(st)
	h := newTestRouter(func(r chi.Router) {
		r.Post("/tests/{testID}/attempts", SubmitAttemptHandler(eng))
	})

	submit := func(body string) *httptest.ResponseRecorder {
		req := asUser(httptest.NewRequest("POST", "/tests/7/attempts", strings.NewReader(body)), 10, access.RoleStudent)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := submit(`{"answers": {"1": 11}}`); rec.Code != http.StatusCreated {
		t.Fatalf("first attempt status = %d, want 201", rec.Code)
	}
	rec := submit(`{"answers": {"1": 11}}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second attempt status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Error     string  `json:"error"`
		Limit     int     `json:"attempts_limit"`
		LastScore float64 `json:"last_score"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Limit != 1 || body.LastScore != 100.0 {
		t.Fatalf("got limit=%d last=%v, want limit=1 last=100", body.Limit, body.LastScore)
	}
	if len(st.attempts) != 1 {
		t.Fatalf("stored attempts = %d, want 1", len(st.attempts))
	}
}

func TestSubmitAttemptUnknownTest(t *testing.T) {
	eng := attempt.NewEngine(&fakeAttemptStore{key: attempt.TestKey{ID: 7, AttemptsLimit: 3}})
	h := newTestRouter(func(r chi.Router) {
		r.Post("/tests/{testID}/attempts", SubmitAttemptHandler(eng))
	})

	req := asUser(httptest.NewRequest("POST", "/tests/99/attempts", strings.NewReader(`{"answers":{}}`)), 10, access.RoleStudent)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCreateScheduleConflict(t *testing.T) {
	store := &fakeCatalog{
		groups: map[int64]catalog.StudyGroup{1: {ID: 1, Name: "IS-21"}},
	}
	h := newTestRouter(func(r chi.Router) {
		r.Post("/groups/{groupID}/schedule", CreateScheduleEntryHandler(store))
	})

	body := `{"day_of_week": 2, "time": "09:30", "subject": "Math", "room": "101"}`
	post := func() *httptest.ResponseRecorder {
		req := asUser(httptest.NewRequest("POST", "/groups/1/schedule", strings.NewReader(body)), 1, access.RoleAdmin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := post(); rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if rec := post(); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate slot status = %d, want 409", rec.Code)
	}
}

func TestBulkUpsertUsersCSV(t *testing.T) {
	store := &fakeCatalog{
		users:  map[int64]catalog.User{1: {ID: 1, Username: "bob", FullName: "Bob", Role: access.RoleStudent}},
		hashes: map[string]string{"bob": "old-hash"},
	}
	h := newTestRouter(func(r chi.Router) {
		r.Post("/users/bulk", BulkUpsertUsersHandler(store))
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "users.csv")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	csvBody := "username,full_name,role,password,study_group_id\n" +
		"bob,Bob Brown,student,,2\n" +
		"carol,Carol Clay,student,secret1,2\n"
	if _, err := io.WriteString(fw, csvBody); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	_ = mw.Close()

	req := asUser(httptest.NewRequest("POST", "/users/bulk", &buf), 1, access.RoleAdmin)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var res map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res["inserted"] != 1 || res["updated"] != 1 {
		t.Fatalf("got inserted=%d updated=%d, want 1/1", res["inserted"], res["updated"])
	}

	bob, err := store.GetUserByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("bob gone: %v", err)
	}
	if bob.FullName != "Bob Brown" || bob.StudyGroupID == nil || *bob.StudyGroupID != 2 {
		t.Fatalf("bob not updated: %+v", bob)
	}
	if store.hashes["bob"] != "old-hash" {
		t.Fatalf("empty password must keep the stored hash")
	}
	carol, err := store.GetUserByUsername(context.Background(), "carol")
	if err != nil {
		t.Fatalf("carol missing: %v", err)
	}
	if carol.Role != access.RoleStudent {
		t.Fatalf("carol role = %v", carol.Role)
	}
	if store.hashes["carol"] == "" || store.hashes["carol"] == "secret1" {
		t.Fatalf("carol's password must be stored hashed")
	}
}

func TestBulkUpsertUsersJSONBody(t *testing.T) {
	store := &fakeCatalog{users: map[int64]catalog.User{}}
	h := newTestRouter(func(r chi.Router) {
		r.Post("/users/bulk", BulkUpsertUsersHandler(store))
	})

	body := `[{"username": "dave", "full_name": "Dave D", "role": "student", "password": "secret2"}]`
	req := asUser(httptest.NewRequest("POST", "/users/bulk", strings.NewReader(body)), 1, access.RoleAdmin)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if _, err := store.GetUserByUsername(context.Background(), "dave"); err != nil {
		t.Fatalf("dave missing: %v", err)
	}
}

func TestBulkUpsertRejectsNewUserWithoutPassword(t *testing.T) {
	store := &fakeCatalog{users: map[int64]catalog.User{}}
	h := newTestRouter(func(r chi.Router) {
		r.Post("/users/bulk", BulkUpsertUsersHandler(store))
	})

	body := `[{"username": "eve", "full_name": "Eve E", "role": "student"}]`
	req := asUser(httptest.NewRequest("POST", "/users/bulk", strings.NewReader(body)), 1, access.RoleAdmin)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateScheduleRejectsBadTime(t *testing.T) {
	store := &fakeCatalog{
		groups: map[int64]catalog.StudyGroup{1: {ID: 1, Name: "IS-21"}},
	}
	h := newTestRouter(func(r chi.Router) {
		r.Post("/groups/{groupID}/schedule", CreateScheduleEntryHandler(store))
	})

	body := `{"day_of_week": 2, "time": "25:99", "subject": "Math"}`
	req := asUser(httptest.NewRequest("POST", "/groups/1/schedule", strings.NewReader(body)), 1, access.RoleAdmin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
