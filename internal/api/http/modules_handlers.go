package http

import (
	"net/http"

	"github.com/studyhall/studyhall-lms/internal/catalog"
)

type createModuleReq struct {
	Name      string `json:"name" validate:"required"`
	SubjectID *int64 `json:"subject_id"`
}

func CreateModuleHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createModuleReq
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.SubjectID != nil {
			if _, err := store.GetSubject(r.Context(), *req.SubjectID); err != nil {
				writeStoreErr(w, err)
				return
			}
		}
		m, err := store.CreateModule(r.Context(), req.Name, req.SubjectID)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

// GetModuleHandler returns a module with its lectures and tests.
func GetModuleHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "moduleID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		m, err := store.GetModule(r.Context(), id)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		lectures, err := store.ListLecturesByModule(r.Context(), id)
		if err != nil {
			writeInternal(w, err)
			return
		}
		tests, err := store.ListTestsByModule(r.Context(), id)
		if err != nil {
			writeInternal(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"module":   m,
			"lectures": lectures,
			"tests":    tests,
		})
	}
}

func DeleteModuleHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "moduleID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteModule(r.Context(), id); err != nil {
			writeStoreErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
