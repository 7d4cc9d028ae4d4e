// Package registry maps file extensions to content types.
package registry

import (
	"strings"
	"sync"

	"github.com/starford/mdxoutline/internal/events"
)

// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]string
}

// New returns a registry that already knows the built-in markdown extension.
func New() *Registry {
	return &Registry{types: map[string]string{"md": "markdown"}}
}

// RegisterExtensions declares exts as contentType. Extensions that are
// already registered are skipped and left untouched by the returned disposer.
func (r *Registry) RegisterExtensions(exts []string, contentType string) events.Disposer {
	r.mu.Lock()
	var added []string
	for _, ext := range exts {
		ext = normalize(ext)
		if ext == "" {
			continue
		}
		if _, ok := r.types[ext]; ok {
			continue
		}
		r.types[ext] = contentType
		added = append(added, ext)
	}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for _, ext := range added {
				delete(r.types, ext)
			}
		})
	}
}

// ContentType returns the content type registered for ext.
func (r *Registry) ContentType(ext string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.types[normalize(ext)]
	return ct, ok
}

// IsRegistered reports whether ext has any content type.
func (r *Registry) IsRegistered(ext string) bool {
	_, ok := r.ContentType(ext)
	return ok
}

func normalize(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
