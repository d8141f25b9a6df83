package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/studyhall/studyhall-lms/internal/storage"
)

// FilesHandler serves stored lecture files by blob key.
// GET /files/* where * is the key, e.g. lectures/group/subject/notes.pdf.
func FilesHandler(blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if key == "" || strings.Contains(key, "..") {
			http.Error(w, "bad key", http.StatusBadRequest)
			return
		}
		rc, err := blobs.Get(key)
		if err != nil {
			writeNotFound(w)
			return
		}
		defer rc.Close()

		if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
			w.Header().Set("Content-Type", ct)
		} else {
			w.Header().Set("Content-Type", "application/octet-stream")
		}
		_, _ = io.Copy(w, rc)
	}
}
