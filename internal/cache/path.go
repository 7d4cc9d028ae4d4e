// Package cache maps documents to their outline artifacts in the flat cache directory.
package cache

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/starford/mdxoutline/internal/apperr"
	"github.com/starford/mdxoutline/internal/storage"
)

// JoinMarker replaces path separators when a document path is flattened.
const JoinMarker = "__"

// ArtifactExt is the extension every outline artifact carries.
const ArtifactExt = ".md"

// Path returns the artifact path for docPath inside dir. The document's own
// extension is dropped and folders are flattened with JoinMarker, so
// "docs/intro.mdx" and "blog/intro.mdx" land in different files.
func Path(dir, docPath string) string {
	trimmed := strings.TrimSuffix(docPath, path.Ext(docPath))
	flat := strings.ReplaceAll(trimmed, "/", JoinMarker)
	return path.Join(dir, flat+ArtifactExt)
}

// EnsureDir makes sure dir exists as a directory. It returns false with a nil
// error when a non-directory occupies the path; callers skip writing then.
// A concurrent creation reported as already-exists counts as success.
func EnsureDir(store storage.Provider, dir string) (bool, error) {
	entry, err := store.Stat(dir)
	switch {
	case err == nil:
		return entry.IsDir, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return false, fmt.Errorf("cache: stat dir: %w", err)
	}

	if err := store.CreateDir(dir); err != nil && !apperr.IsAlreadyExists(err) {
		return false, fmt.Errorf("cache: create dir: %w", err)
	}
	return true, nil
}
