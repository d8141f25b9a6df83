package http

import (
	"net/http"

	"github.com/studyhall/studyhall-lms/internal/access"
	"github.com/studyhall/studyhall-lms/internal/catalog"
)

type createSubjectReq struct {
	Name    string `json:"name" validate:"required"`
	GroupID int64  `json:"group_id" validate:"required"`
}

func CreateSubjectHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSubjectReq
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := store.GetGroup(r.Context(), req.GroupID); err != nil {
			writeStoreErr(w, err)
			return
		}
		sub, err := store.CreateSubject(r.Context(), req.Name, req.GroupID)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	}
}

// GetSubjectHandler returns a subject with its modules. Students only see
// subjects of their own group; a mismatch yields the denied state, never the
// modules.
func GetSubjectHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "subjectID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		sub, err := store.GetSubject(r.Context(), id)
		if err != nil {
			writeStoreErr(w, err)
			return
		}

		u, err := currentUser(r, store)
		if err != nil {
			writeInternal(w, err)
			return
		}
		if !access.CanViewSubject(u.Role, u.StudyGroupID, sub.GroupID) {
			writeDenied(w)
			return
		}

		modules, err := store.ListModulesBySubject(r.Context(), id)
		if err != nil {
			writeInternal(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"subject": sub, "modules": modules})
	}
}

func DeleteSubjectHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "subjectID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteSubject(r.Context(), id); err != nil {
			writeStoreErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
