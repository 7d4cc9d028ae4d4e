// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/mdxoutline/internal/models"

// Provider is the interface for vault file operations. All paths are
// slash-separated and relative to the vault root.
type Provider interface {
	// List returns every file in the vault, outside hidden directories.
	List() ([]models.Document, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Stat looks up a file or directory. Missing entries yield apperr.ErrNotFound.
	Stat(path string) (models.Entry, error)
	// Create writes a new file and fails with an already-exists error if one is present.
	Create(path string, content []byte) error
	// Modify atomically replaces the content of an existing file.
	Modify(path string, content []byte) error
	// CreateDir creates a directory and fails with an already-exists error if one is present.
	CreateDir(path string) error
}
