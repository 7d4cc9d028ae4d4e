// Package editor provides the single editing surface driven by link resolution.
package editor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/starford/mdxoutline/internal/apperr"
	"github.com/starford/mdxoutline/internal/models"
	"github.com/starford/mdxoutline/internal/resolver"
	"github.com/starford/mdxoutline/internal/sse"
)

// Publisher receives navigation events for connected clients.
type Publisher interface {
	Publish(event sse.Event)
}

// Reader reads saved document content.
type Reader interface {
	Read(path string) ([]byte, error)
}

// State is a snapshot of the surface.
type State struct {
	Active   *models.Document  `json:"active,omitempty"`
	Cursor   resolver.Position `json:"cursor"`
	Unsaved  []string          `json:"unsaved"`
	Revision int               `json:"revision"`
}

// Workspace holds one surface: the active document, its cursor, and any
// unsaved buffers clients pushed. Opening a document reuses the surface.
type Workspace struct {
	store Reader
	pub   Publisher

	mu       sync.Mutex
	active   *models.Document
	cursor   resolver.Position
	buffers  map[string]string
	revision int
}

// NewWorkspace returns an empty workspace. pub may be nil.
func NewWorkspace(store Reader, pub Publisher) *Workspace {
	return &Workspace{
		store:   store,
		pub:     pub,
		buffers: make(map[string]string),
	}
}

func (w *Workspace) Active() (models.Document, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active == nil {
		return models.Document{}, false
	}
	return *w.active, true
}

// Open shows doc and resets the cursor to the top of the document.
func (w *Workspace) Open(_ context.Context, doc models.Document) error {
	w.mu.Lock()
	w.active = &doc
	w.cursor = resolver.Position{}
	w.revision++
	w.mu.Unlock()

	w.publish(sse.TypeEditorOpened, map[string]any{"path": doc.Path})
	return nil
}

// Lines returns the active document's unsaved buffer, or its saved content.
func (w *Workspace) Lines(_ context.Context) ([]string, error) {
	w.mu.Lock()
	active := w.active
	buf, hasBuf := "", false
	if active != nil {
		buf, hasBuf = w.buffers[active.Path]
	}
	w.mu.Unlock()

	if active == nil {
		return nil, fmt.Errorf("editor: no active document: %w", apperr.ErrNotFound)
	}
	if hasBuf {
		return strings.Split(buf, "\n"), nil
	}
	data, err := w.store.Read(active.Path)
	if err != nil {
		return nil, fmt.Errorf("editor: read %s: %w", active.Path, err)
	}
	return strings.Split(string(data), "\n"), nil
}

func (w *Workspace) SetCursor(_ context.Context, pos resolver.Position) error {
	w.mu.Lock()
	if w.active == nil {
		w.mu.Unlock()
		return fmt.Errorf("editor: no active document: %w", apperr.ErrNotFound)
	}
	w.cursor = pos
	path := w.active.Path
	w.mu.Unlock()

	w.publish(sse.TypeEditorCursor, map[string]any{"path": path, "line": pos.Line, "ch": pos.Ch})
	return nil
}

func (w *Workspace) ScrollIntoView(_ context.Context, from, to resolver.Position) error {
	w.mu.Lock()
	if w.active == nil {
		w.mu.Unlock()
		return fmt.Errorf("editor: no active document: %w", apperr.ErrNotFound)
	}
	path := w.active.Path
	w.mu.Unlock()

	w.publish(sse.TypeEditorScrolled, map[string]any{"path": path, "from": from, "to": to})
	return nil
}

// SetBuffer records unsaved text for path.
func (w *Workspace) SetBuffer(path, content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buffers[path] = content
}

// DiscardBuffer drops unsaved text for path.
func (w *Workspace) DiscardBuffer(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.buffers, path)
}

// State returns a snapshot of the surface.
func (w *Workspace) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := State{Cursor: w.cursor, Unsaved: []string{}, Revision: w.revision}
	if w.active != nil {
		d := *w.active
		st.Active = &d
	}
	for p := range w.buffers {
		st.Unsaved = append(st.Unsaved, p)
	}
	return st
}

func (w *Workspace) publish(kind string, data any) {
	if w.pub != nil {
		w.pub.Publish(sse.Event{Type: kind, Data: data})
	}
}

var _ resolver.Editor = (*Workspace)(nil)
