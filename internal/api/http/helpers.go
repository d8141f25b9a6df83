package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/studyhall/studyhall-lms/internal/access"
	"github.com/studyhall/studyhall-lms/internal/catalog"
	"github.com/studyhall/studyhall-lms/internal/observability"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDenied renders the access-policy violation as an in-page state: the
// caller gets a denial payload, never the requested data.
func writeDenied(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied"})
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func writeInternal(w http.ResponseWriter, err error) {
	observability.CaptureErr(err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// writeStoreErr maps catalog store errors onto responses.
func writeStoreErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeNotFound(w)
	case errors.Is(err, catalog.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "already exists"})
	default:
		writeInternal(w, err)
	}
}

// decodeValid decodes a JSON body and runs struct validation on it.
func decodeValid(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("bad json")
	}
	return validate.Struct(v)
}

func urlID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

// currentUser resolves the authenticated caller to their user record.
func currentUser(r *http.Request, store catalog.Store) (catalog.User, error) {
	id, ok := access.IdentityFromContext(r.Context())
	if !ok {
		return catalog.User{}, errors.New("no identity in context")
	}
	return store.GetUser(r.Context(), id.UserID)
}
