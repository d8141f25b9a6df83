package http

import (
	"net/http"

	"github.com/studyhall/studyhall-lms/internal/access"
	"github.com/studyhall/studyhall-lms/internal/attempt"
	"github.com/studyhall/studyhall-lms/internal/catalog"
)

type createTestReq struct {
	Name          string `json:"name" validate:"required"`
	ModuleID      int64  `json:"module_id" validate:"required"`
	AttemptsLimit int    `json:"attempts_limit" validate:"gte=0"`
}

type createQuestionReq struct {
	Text string `json:"text" validate:"required"`
}

type createChoiceReq struct {
	Text    string `json:"text" validate:"required"`
	Correct bool   `json:"correct"`
}

func CreateTestHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTestReq
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := store.GetModule(r.Context(), req.ModuleID); err != nil {
			writeStoreErr(w, err)
			return
		}
		t, err := store.CreateTest(r.Context(), req.Name, req.ModuleID, req.AttemptsLimit)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

// GetTestHandler returns the test with its questions. Correctness flags are
// stripped for students; admins see the full answer key. Students also get
// their attempt status for the test-taking form.
func GetTestHandler(store catalog.Store, eng *attempt.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "testID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		t, err := store.GetTest(r.Context(), id)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		questions, err := store.ListQuestions(r.Context(), id)
		if err != nil {
			writeInternal(w, err)
			return
		}

		ident, _ := access.IdentityFromContext(r.Context())
		if ident.Role != access.RoleAdmin {
			for i := range questions {
				for j := range questions[i].Choices {
					questions[i].Choices[j].Correct = false
				}
			}
		}

		resp := map[string]any{"test": t, "questions": questions}
		if st, err := eng.Status(r.Context(), ident.UserID, id); err == nil {
			resp["attempts"] = st
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func DeleteTestHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "testID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteTest(r.Context(), id); err != nil {
			writeStoreErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func CreateQuestionHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testID, err := urlID(r, "testID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var req createQuestionReq
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := store.GetTest(r.Context(), testID); err != nil {
			writeStoreErr(w, err)
			return
		}
		q, err := store.CreateQuestion(r.Context(), testID, req.Text)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func DeleteQuestionHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "questionID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteQuestion(r.Context(), id); err != nil {
			writeStoreErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func CreateChoiceHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questionID, err := urlID(r, "questionID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var req createChoiceReq
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c, err := store.CreateChoice(r.Context(), questionID, req.Text, req.Correct)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func DeleteChoiceHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "choiceID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteChoice(r.Context(), id); err != nil {
			writeStoreErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
