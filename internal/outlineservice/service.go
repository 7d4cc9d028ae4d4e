// Package outlineservice coordinates the synchronizer, the heading database
// and the editor workspace behind the HTTP and MCP surfaces.
package outlineservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/starford/mdxoutline/internal/apperr"
	"github.com/starford/mdxoutline/internal/editor"
	"github.com/starford/mdxoutline/internal/events"
	"github.com/starford/mdxoutline/internal/index"
	"github.com/starford/mdxoutline/internal/linkref"
	"github.com/starford/mdxoutline/internal/models"
	"github.com/starford/mdxoutline/internal/parser"
	"github.com/starford/mdxoutline/internal/registry"
	"github.com/starford/mdxoutline/internal/storage"
)

// OutlineDetail is the mirrored outline of one document.
type OutlineDetail struct {
	Path     string           `json:"path"`
	Artifact string           `json:"artifact"`
	Headings []models.Heading `json:"headings"`
}

// OutlineListItem summarises one indexed document.
type OutlineListItem struct {
	Path         string    `json:"path"`
	Checksum     string    `json:"checksum"`
	HeadingCount int       `json:"heading_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DocumentItem is a vault document with its registered content type.
type DocumentItem struct {
	Path        string `json:"path"`
	Basename    string `json:"basename"`
	ContentType string `json:"content_type"`
}

// ClickResult reports what a dispatched click did to the editor.
type ClickResult struct {
	ClickID   string       `json:"click_id"`
	Prevented bool         `json:"prevented"`
	Editor    editor.State `json:"editor"`
}

// Service is the application layer shared by the API and MCP server.
type Service struct {
	store     storage.Provider
	sync      *index.Synchronizer
	db        index.HeadingIndex
	workspace *editor.Workspace
	clicks    *events.Bus[*events.Click]
	types     *registry.Registry
}

// NewService creates a new outline service.
func NewService(store storage.Provider, sync *index.Synchronizer, db index.HeadingIndex, ws *editor.Workspace, clicks *events.Bus[*events.Click], types *registry.Registry) *Service {
	return &Service{store: store, sync: sync, db: db, workspace: ws, clicks: clicks, types: types}
}

// GetOutline reads the cache artifact of path and parses it back into headings.
func (s *Service) GetOutline(_ context.Context, path string) (*OutlineDetail, error) {
	doc := models.NewDocument(path)
	if !s.sync.Manages(doc) {
		return nil, fmt.Errorf("outline: %s: %w", path, apperr.ErrNotFound)
	}
	data, err := s.store.Read(s.sync.ArtifactPath(doc))
	if err != nil {
		return nil, fmt.Errorf("outline: %s: %w", path, err)
	}
	return &OutlineDetail{
		Path:     path,
		Artifact: string(data),
		Headings: parser.ParseOutline(string(data)),
	}, nil
}

// Reindex mirrors one document now and returns its fresh outline.
func (s *Service) Reindex(ctx context.Context, path string) (*OutlineDetail, error) {
	doc := models.NewDocument(path)
	if !s.sync.Manages(doc) {
		return nil, fmt.Errorf("outline: %s: %w", path, apperr.ErrNotFound)
	}
	entry, err := s.store.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("outline: %s: %w", path, err)
	}
	if entry.IsDir {
		return nil, fmt.Errorf("outline: %s: %w", path, apperr.ErrNotFound)
	}
	if err := s.sync.IndexOne(ctx, doc); err != nil {
		return nil, err
	}
	return s.GetOutline(ctx, path)
}

// ReindexAll runs a full pass over the vault.
func (s *Service) ReindexAll(ctx context.Context) error {
	return s.sync.IndexAll(ctx)
}

// ListOutlines returns every document the heading database knows about.
func (s *Service) ListOutlines(_ context.Context) ([]OutlineListItem, error) {
	rows, err := s.db.ListOutlines()
	if err != nil {
		return nil, err
	}
	items := make([]OutlineListItem, len(rows))
	for i, r := range rows {
		items[i] = OutlineListItem(r)
	}
	return items, nil
}

// ListDocuments returns vault documents whose extension has a registered
// content type.
func (s *Service) ListDocuments(_ context.Context) ([]DocumentItem, error) {
	docs, err := s.store.List()
	if err != nil {
		return nil, err
	}
	items := []DocumentItem{}
	for _, d := range docs {
		ct, ok := s.types.ContentType(d.Extension)
		if !ok {
			continue
		}
		items = append(items, DocumentItem{Path: d.Path, Basename: d.Basename, ContentType: ct})
	}
	return items, nil
}

// SearchHeadings queries the heading database.
func (s *Service) SearchHeadings(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	res, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []index.SearchResult{}
	}
	return res, nil
}

// Click dispatches a click on target to every subscriber and reports the
// resulting editor state.
func (s *Service) Click(ctx context.Context, target linkref.Element) ClickResult {
	c := events.NewClick(target)
	s.clicks.Emit(ctx, c)
	return ClickResult{ClickID: c.ID(), Prevented: c.DefaultPrevented(), Editor: s.workspace.State()}
}

// Activate makes path the active document of the editor.
func (s *Service) Activate(ctx context.Context, path string) (editor.State, error) {
	if _, err := s.store.Stat(path); err != nil {
		return editor.State{}, err
	}
	if err := s.workspace.Open(ctx, models.NewDocument(path)); err != nil {
		return editor.State{}, err
	}
	return s.workspace.State(), nil
}

// SetBuffer stores unsaved editor text for path.
func (s *Service) SetBuffer(path, content string) editor.State {
	s.workspace.SetBuffer(path, content)
	return s.workspace.State()
}

// DiscardBuffer drops unsaved text for path.
func (s *Service) DiscardBuffer(path string) editor.State {
	s.workspace.DiscardBuffer(path)
	return s.workspace.State()
}

// EditorState returns the current editor state.
func (s *Service) EditorState() editor.State {
	return s.workspace.State()
}

// IsNotFound reports whether err maps to a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
