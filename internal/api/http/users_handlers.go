package http

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/studyhall/studyhall-lms/internal/access"
	"github.com/studyhall/studyhall-lms/internal/catalog"
)

type createUserReq struct {
	Username     string `json:"username" validate:"required,min=3"`
	FullName     string `json:"full_name" validate:"required"`
	Password     string `json:"password" validate:"required,min=6"`
	Role         string `json:"role" validate:"required,oneof=student admin"`
	StudyGroupID *int64 `json:"study_group_id"`
}

type resetPasswordReq struct {
	Password string `json:"password" validate:"required,min=6"`
}

// ListUsersHandler returns all accounts. Admin only.
func ListUsersHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := store.ListUsers(r.Context())
		if err != nil {
			writeInternal(w, err)
			return
		}
		if users == nil {
			users = []catalog.User{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": users})
	}
}

// CreateUserHandler registers an account. Students must belong to a group.
func CreateUserHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserReq
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		role, err := access.ParseRole(req.Role)
		if err != nil {
			http.Error(w, "bad role", http.StatusBadRequest)
			return
		}
		if req.StudyGroupID != nil {
			if _, err := store.GetGroup(r.Context(), *req.StudyGroupID); err != nil {
				writeStoreErr(w, err)
				return
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeInternal(w, err)
			return
		}
		u, err := store.CreateUser(r.Context(), catalog.User{
			Username:     req.Username,
			FullName:     req.FullName,
			Role:         role,
			StudyGroupID: req.StudyGroupID,
		}, string(hash))
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

type userRow struct {
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	Password     string `json:"password,omitempty"` // required for new accounts
	StudyGroupID *int64 `json:"study_group_id,omitempty"`
}

// BulkUpsertUsersHandler imports accounts in one shot: a multipart file=
// (CSV or JSON, sniffed by the first byte) or a raw JSON array in the body.
// Existing usernames are updated, new ones inserted.
// POST /users/bulk
func BulkUpsertUsersHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []userRow
		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "multipart/form-data") {
			f, _, err := r.FormFile("file")
			if err != nil {
				http.Error(w, "file required", http.StatusBadRequest)
				return
			}
			defer f.Close()
			buf := make([]byte, 1)
			if _, err := f.Read(buf); err != nil {
				http.Error(w, "empty file", http.StatusBadRequest)
				return
			}
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				http.Error(w, "unseekable file", http.StatusBadRequest)
				return
			}
			if buf[0] == '[' || buf[0] == '{' {
				if err := json.NewDecoder(f).Decode(&rows); err != nil {
					http.Error(w, "bad json", http.StatusBadRequest)
					return
				}
			} else {
				rows, err = parseUserCSV(f)
				if err != nil {
					http.Error(w, "bad csv: "+err.Error(), http.StatusBadRequest)
					return
				}
			}
		} else {
			if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
				http.Error(w, "expected JSON array or multipart file", http.StatusBadRequest)
				return
			}
		}

		inserted, updated := 0, 0
		for _, row := range rows {
			if row.Username == "" {
				http.Error(w, "username required", http.StatusBadRequest)
				return
			}
			if row.Role == "" {
				row.Role = "student"
			}
			role, err := access.ParseRole(row.Role)
			if err != nil {
				http.Error(w, "invalid role: "+row.Role, http.StatusBadRequest)
				return
			}
			var hash string
			if row.Password != "" {
				b, err := bcrypt.GenerateFromPassword([]byte(row.Password), bcrypt.DefaultCost)
				if err != nil {
					writeInternal(w, err)
					return
				}
				hash = string(b)
			}

			existing, err := store.GetUserByUsername(r.Context(), row.Username)
			switch {
			case err == nil:
				existing.FullName = row.FullName
				existing.Role = role
				existing.StudyGroupID = row.StudyGroupID
				if err := store.UpdateUser(r.Context(), existing, hash); err != nil {
					writeInternal(w, err)
					return
				}
				updated++
			case errors.Is(err, catalog.ErrNotFound):
				if hash == "" {
					http.Error(w, "password required for new user: "+row.Username, http.StatusBadRequest)
					return
				}
				if _, err := store.CreateUser(r.Context(), catalog.User{
					Username:     row.Username,
					FullName:     row.FullName,
					Role:         role,
					StudyGroupID: row.StudyGroupID,
				}, hash); err != nil {
					writeStoreErr(w, err)
					return
				}
				inserted++
			default:
				writeInternal(w, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]int{"inserted": inserted, "updated": updated})
	}
}

// parseUserCSV reads username,full_name,role[,password][,study_group_id]
// with a header row; column order is free.
func parseUserCSV(r io.Reader) ([]userRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range []string{"username", "full_name", "role"} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}
	var rows []userRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := userRow{
			Username: strings.TrimSpace(rec[idx["username"]]),
			FullName: strings.TrimSpace(rec[idx["full_name"]]),
			Role:     strings.ToLower(strings.TrimSpace(rec[idx["role"]])),
		}
		if i, ok := idx["password"]; ok {
			row.Password = rec[i]
		}
		if i, ok := idx["study_group_id"]; ok && strings.TrimSpace(rec[i]) != "" {
			g, err := strconv.ParseInt(strings.TrimSpace(rec[i]), 10, 64)
			if err != nil {
				return nil, errors.New("bad study_group_id for " + row.Username)
			}
			row.StudyGroupID = &g
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ResetPasswordHandler lets an admin set a new password for any account.
func ResetPasswordHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "userID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var req resetPasswordReq
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeInternal(w, err)
			return
		}
		if err := store.UpdatePassword(r.Context(), id, string(hash)); err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// DeleteUserHandler removes an account. Admins cannot delete themselves.
func DeleteUserHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "userID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if ident, ok := access.IdentityFromContext(r.Context()); ok && ident.UserID == id {
			http.Error(w, "cannot delete own account", http.StatusBadRequest)
			return
		}
		if err := store.DeleteUser(r.Context(), id); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				writeNotFound(w)
				return
			}
			writeInternal(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
