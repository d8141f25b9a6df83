package http

import (
	"errors"
	"net/http"

	"github.com/studyhall/studyhall-lms/internal/catalog"
)

type createScheduleReq struct {
	DayOfWeek int    `json:"day_of_week" validate:"required,min=1,max=7"`
	Time      string `json:"time" validate:"required,len=5"`
	Subject   string `json:"subject" validate:"required"`
	Room      string `json:"room"`
}

// ListGroupSchedule returns a group's weekly timetable ordered by day, time.
func ListGroupScheduleHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := urlID(r, "groupID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if _, err := store.GetGroup(r.Context(), groupID); err != nil {
			writeStoreErr(w, err)
			return
		}
		items, err := store.ListSchedulesByGroup(r.Context(), groupID)
		if err != nil {
			writeInternal(w, err)
			return
		}
		if items == nil {
			items = []catalog.Schedule{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"schedule": items})
	}
}

// CreateScheduleEntry adds a lesson slot to a group's timetable.
// Duplicate (day, time) slots for the same group come back as 409.
func CreateScheduleEntryHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := urlID(r, "groupID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var req createScheduleReq
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !validClock(req.Time) {
			http.Error(w, "time must be HH:MM", http.StatusBadRequest)
			return
		}
		if _, err := store.GetGroup(r.Context(), groupID); err != nil {
			writeStoreErr(w, err)
			return
		}
		sc, err := store.CreateSchedule(r.Context(), catalog.Schedule{
			GroupID:   groupID,
			DayOfWeek: req.DayOfWeek,
			Time:      req.Time,
			Subject:   req.Subject,
			Room:      req.Room,
		})
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sc)
	}
}

// DeleteScheduleEntry removes a lesson slot.
func DeleteScheduleEntryHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "entryID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteSchedule(r.Context(), id); err != nil {
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

// validClock accepts 24h HH:MM strings.
func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	for _, c := range []byte{s[0], s[1], s[3], s[4]} {
		if c < '0' || c > '9' {
			return false
		}
	}
	return hh < 24 && mm < 60
}
