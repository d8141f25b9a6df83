package http

import (
	"net/http"

	"github.com/studyhall/studyhall-lms/internal/catalog"
)

type createGroupReq struct {
	Name string `json:"name" validate:"required"`
}

func ListGroupsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := store.ListGroups(r.Context())
		if err != nil {
			writeInternal(w, err)
			return
		}
		if groups == nil {
			groups = []catalog.StudyGroup{}
		}
		writeJSON(w, http.StatusOK, groups)
	}
}

func CreateGroupHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGroupReq
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		g, err := store.CreateGroup(r.Context(), req.Name)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

// GetGroupHandler returns a group with its subjects.
func GetGroupHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "groupID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		g, err := store.GetGroup(r.Context(), id)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		subjects, err := store.ListSubjectsByGroup(r.Context(), id)
		if err != nil {
			writeInternal(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"group": g, "subjects": subjects})
	}
}

func DeleteGroupHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "groupID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteGroup(r.Context(), id); err != nil {
			writeStoreErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
