package apperr

import (
	"errors"
	"io/fs"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotDirectory  = errors.New("not a directory")

	// ErrRead marks content that could not be read.
	ErrRead = errors.New("read failure")
	// ErrWrite marks a cache directory or artifact that could not be written.
	ErrWrite = errors.New("write failure")
)

// IsAlreadyExists reports whether err describes an entry that already exists.
// Hosts do not always wrap a typed error, so the description is inspected as well.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAlreadyExists) || errors.Is(err, fs.ErrExist) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}
