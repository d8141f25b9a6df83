package http

import (
	"net/http"

	"github.com/studyhall/studyhall-lms/internal/access"
	"github.com/studyhall/studyhall-lms/internal/catalog"
)

// DashboardHandler is the landing payload after login. Students get their
// group's subjects and timetable; admins get the group list.
func DashboardHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := currentUser(r, store)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if u.Role == access.RoleAdmin {
			groups, err := store.ListGroups(r.Context())
			if err != nil {
				writeInternal(w, err)
				return
			}
			if groups == nil {
				groups = []catalog.StudyGroup{}
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"user":   u,
				"groups": groups,
			})
			return
		}

		subjects := []catalog.Subject{}
		schedule := []catalog.Schedule{}
		if u.StudyGroupID != nil {
			subjects, err = store.ListSubjectsByGroup(r.Context(), *u.StudyGroupID)
			if err != nil {
				writeInternal(w, err)
				return
			}
			schedule, err = store.ListSchedulesByGroup(r.Context(), *u.StudyGroupID)
			if err != nil {
				writeInternal(w, err)
				return
			}
		}
		if subjects == nil {
			subjects = []catalog.Subject{}
		}
		if schedule == nil {
			schedule = []catalog.Schedule{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user":     u,
			"subjects": subjects,
			"schedule": schedule,
		})
	}
}
