package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/studyhall/studyhall-lms/internal/access"
	"github.com/studyhall/studyhall-lms/internal/catalog"
	"github.com/studyhall/studyhall-lms/internal/render"
	"github.com/studyhall/studyhall-lms/internal/storage"
)

// ListLecturesHandler lists lectures the caller may see: every lecture for
// admins, only the ones assigned to the student's group otherwise.
func ListLecturesHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := currentUser(r, store)
		if err != nil {
			writeInternal(w, err)
			return
		}

		var lectures []catalog.Lecture
		if u.Role == access.RoleAdmin {
			lectures, err = store.ListLectures(r.Context())
		} else if u.StudyGroupID != nil {
			lectures, err = store.ListLecturesByGroup(r.Context(), *u.StudyGroupID)
		}
		if err != nil {
			writeInternal(w, err)
			return
		}
		if lectures == nil {
			lectures = []catalog.Lecture{}
		}
		writeJSON(w, http.StatusOK, lectures)
	}
}

// GetLectureHandler returns lecture metadata plus a display payload. Render
// failures degrade into the fallback content, they never fail the request.
func GetLectureHandler(store catalog.Store, rnd *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "lectureID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		l, err := store.GetLecture(r.Context(), id)
		if err != nil {
			writeStoreErr(w, err)
			return
		}

		u, err := currentUser(r, store)
		if err != nil {
			writeInternal(w, err)
			return
		}
		if !access.CanViewLecture(u.Role, u.StudyGroupID, l.GroupIDs) {
			writeDenied(w)
			return
		}

		payload := rnd.Render(r.Context(), l.FileKey)
		writeJSON(w, http.StatusOK, map[string]any{"lecture": l, "display": payload})
	}
}

// UploadLectureHandler accepts a multipart form: title, module_id, group_ids
// (comma separated) and the file. The file lands in the blob store under
// lectures/<group>/<subject>/<filename>.
func UploadLectureHandler(store catalog.Store, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		title := strings.TrimSpace(r.FormValue("title"))
		if title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		moduleID, err := strconv.ParseInt(r.FormValue("module_id"), 10, 64)
		if err != nil {
			http.Error(w, "module_id required", http.StatusBadRequest)
			return
		}
		var groupIDs []int64
		for _, p := range strings.Split(r.FormValue("group_ids"), ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			g, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				http.Error(w, "bad group_ids", http.StatusBadRequest)
				return
			}
			groupIDs = append(groupIDs, g)
		}

		m, err := store.GetModule(r.Context(), moduleID)
		if err != nil {
			writeStoreErr(w, err)
			return
		}

		// Resolve the storage path from the module's subject and group names
		// as they are now; later renames do not move the file.
		groupName, subjectName := "unassigned", "unassigned"
		if m.SubjectID != nil {
			sub, err := store.GetSubject(r.Context(), *m.SubjectID)
			if err == nil {
				subjectName = sub.Name
				if g, err := store.GetGroup(r.Context(), sub.GroupID); err == nil {
					groupName = g.Name
				}
			}
		}
		key := storage.LectureKey(groupName, subjectName, hdr.Filename)
		if _, err := blobs.Put(key, f); err != nil {
			writeInternal(w, err)
			return
		}

		l, err := store.CreateLecture(r.Context(), title, key, moduleID, groupIDs)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, l)
	}
}

func DeleteLectureHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "lectureID")
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteLecture(r.Context(), id); err != nil {
			writeStoreErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
