package http

import (
	"errors"
	"net/http"

	"github.com/studyhall/studyhall-lms/internal/access"
	"github.com/studyhall/studyhall-lms/internal/attempt"
	"github.com/studyhall/studyhall-lms/internal/metrics"
)

type submitAttemptReq struct {
	// question id -> chosen choice id
	Answers map[int64]int64 `json:"answers"`
}

// SubmitAttemptHandler scores a submission for the authenticated student.
// POST /tests/{testID}/attempts  {"answers": {"<questionID>": <choiceID>}}
func SubmitAttemptHandler(eng *attempt.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testID, err := urlID(r, "testID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var req submitAttemptReq
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ident, ok := access.IdentityFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		res, err := eng.Submit(r.Context(), ident.UserID, testID, req.Answers)
		var ex *attempt.ExhaustedError
		switch {
		case errors.As(err, &ex):
			metrics.AttemptsRejected.Inc()
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":          "attempts exhausted",
				"attempts_limit": ex.Limit,
				"last_score":     ex.LastScore,
			})
			return
		case errors.Is(err, attempt.ErrTestNotFound):
			writeNotFound(w)
			return
		case err != nil:
			writeInternal(w, err)
			return
		}

		metrics.AttemptsSubmitted.Inc()
		writeJSON(w, http.StatusCreated, res)
	}
}

// AttemptStatusHandler reports attempts used/left for the caller on a test.
func AttemptStatusHandler(eng *attempt.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testID, err := urlID(r, "testID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		ident, ok := access.IdentityFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		st, err := eng.Status(r.Context(), ident.UserID, testID)
		if errors.Is(err, attempt.ErrTestNotFound) {
			writeNotFound(w)
			return
		}
		if err != nil {
			writeInternal(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}
