package storage

import (
	"io"
	"strings"
)

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	// URL resolves a key to the path the HTTP layer serves it under.
	URL(key string) string
}

// LectureKey builds the storage key for a lecture file:
// lectures/<group name>/<subject name>/<filename>. Keys are built once at
// upload time; renaming a group or subject later does not move already
// stored files.
func LectureKey(groupName, subjectName, filename string) string {
	clean := func(s string) string {
		s = strings.ReplaceAll(s, "/", "-")
		return strings.TrimSpace(s)
	}
	return "lectures/" + clean(groupName) + "/" + clean(subjectName) + "/" + clean(filename)
}
