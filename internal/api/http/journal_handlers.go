package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/studyhall/studyhall-lms/internal/access"
	"github.com/studyhall/studyhall-lms/internal/catalog"
	"github.com/studyhall/studyhall-lms/internal/export"
	"github.com/studyhall/studyhall-lms/internal/journal"
)

// MyJournalHandler returns the caller's per-subject attempt history.
func MyJournalHandler(agg *journal.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := access.IdentityFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		out, err := agg.StudentJournal(r.Context(), ident.UserID)
		if err != nil {
			writeInternal(w, err)
			return
		}
		if out == nil {
			out = []journal.SubjectSummary{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"subjects": out})
	}
}

// SubjectJournalHandler returns the student-by-test score matrix for a subject.
// Admin only (enforced by route middleware).
func SubjectJournalHandler(store catalog.Store, agg *journal.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjectID, err := urlID(r, "subjectID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		subj, err := store.GetSubject(r.Context(), subjectID)
		if errors.Is(err, catalog.ErrNotFound) {
			writeNotFound(w)
			return
		}
		if err != nil {
			writeInternal(w, err)
			return
		}
		m, err := agg.SubjectJournal(r.Context(), subjectID)
		if err != nil {
			writeInternal(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"subject": subj,
			"journal": m,
		})
	}
}

// ExportSubjectJournalHandler streams the subject journal as an xlsx workbook.
func ExportSubjectJournalHandler(store catalog.Store, agg *journal.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjectID, err := urlID(r, "subjectID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		subj, err := store.GetSubject(r.Context(), subjectID)
		if errors.Is(err, catalog.ErrNotFound) {
			writeNotFound(w)
			return
		}
		if err != nil {
			writeInternal(w, err)
			return
		}
		m, err := agg.SubjectJournal(r.Context(), subjectID)
		if err != nil {
			writeInternal(w, err)
			return
		}
		f, err := export.SubjectWorkbook(subj.Name, m)
		if err != nil {
			writeInternal(w, err)
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "journal-"+subj.Name+".xlsx"))
		if _, err := f.WriteTo(w); err != nil {
			// Headers are already out, nothing useful to send.
			return
		}
	}
}
