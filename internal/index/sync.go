package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/mdxoutline/internal/apperr"
	"github.com/starford/mdxoutline/internal/cache"
	"github.com/starford/mdxoutline/internal/checksum"
	"github.com/starford/mdxoutline/internal/models"
	"github.com/starford/mdxoutline/internal/parser"
	"github.com/starford/mdxoutline/internal/storage"
)

// EventCallback is called after a document's outline was written.
type EventCallback func(path string)

// Synchronizer mirrors document headings into cache artifacts.
type Synchronizer struct {
	store    storage.Provider
	ext      string
	cacheDir string
	headings HeadingIndex
	logger   *slog.Logger
	onIndex  EventCallback
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithHeadingIndex also upserts extracted headings into idx.
func WithHeadingIndex(idx HeadingIndex) SyncOption {
	return func(s *Synchronizer) { s.headings = idx }
}

// WithCallback registers cb to run after each successful IndexOne.
func WithCallback(cb EventCallback) SyncOption {
	return func(s *Synchronizer) { s.onIndex = cb }
}

// NewSynchronizer returns a synchronizer for documents with extension ext
// (without dot), writing artifacts under cacheDir.
func NewSynchronizer(store storage.Provider, ext, cacheDir string, logger *slog.Logger, opts ...SyncOption) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Synchronizer{
		store:    store,
		ext:      strings.TrimPrefix(ext, "."),
		cacheDir: cacheDir,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Manages reports whether doc carries the managed extension.
func (s *Synchronizer) Manages(doc models.Document) bool {
	return doc.Extension == s.ext
}

// ArtifactPath returns where doc's outline is mirrored.
func (s *Synchronizer) ArtifactPath(doc models.Document) string {
	return cache.Path(s.cacheDir, doc.Path)
}

// IndexAll indexes every managed document, one after another. A failing
// document is logged and skipped; only a failed listing is returned.
func (s *Synchronizer) IndexAll(ctx context.Context) error {
	docs, err := s.store.List()
	if err != nil {
		return fmt.Errorf("index: list documents: %w", err)
	}

	indexed, failed := 0, 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.Manages(doc) {
			continue
		}
		if err := s.IndexOne(ctx, doc); err != nil {
			failed++
			s.logger.Warn("sync: index failed", slog.String("path", doc.Path), slog.String("error", err.Error()))
			continue
		}
		indexed++
	}

	s.logger.Info("sync: index pass complete", slog.Int("indexed", indexed), slog.Int("failed", failed))
	return nil
}

// IndexOne reads doc, extracts its headings and writes the cache artifact,
// overwriting an existing one. Errors wrap apperr.ErrRead or apperr.ErrWrite.
func (s *Synchronizer) IndexOne(_ context.Context, doc models.Document) error {
	data, err := s.store.Read(doc.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperr.ErrRead, doc.Path, err)
	}

	headings := parser.ExtractHeadings(string(data))
	out := []byte(parser.Serialize(headings))

	ok, err := cache.EnsureDir(s.store, s.cacheDir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperr.ErrWrite, doc.Path, err)
	}
	if !ok {
		s.logger.Debug("sync: cache dir is not a directory, skipping", slog.String("path", doc.Path))
		return nil
	}

	if err := s.writeArtifact(s.ArtifactPath(doc), out); err != nil {
		return fmt.Errorf("%w: %s: %w", apperr.ErrWrite, doc.Path, err)
	}

	if s.headings != nil {
		s.upsertHeadings(doc, data, headings)
	}

	s.logger.Debug("sync: indexed", slog.String("path", doc.Path), slog.Int("headings", len(headings)))
	if s.onIndex != nil {
		s.onIndex(doc.Path)
	}
	return nil
}

// HandleModified is the content-modified notification handler.
func (s *Synchronizer) HandleModified(ctx context.Context, doc models.Document) {
	if !s.Manages(doc) {
		return
	}
	if err := s.IndexOne(ctx, doc); err != nil {
		s.logger.Warn("sync: reindex failed", slog.String("path", doc.Path), slog.String("error", err.Error()))
	}
}

// errArtifactIsDir marks an artifact path occupied by a directory.
var errArtifactIsDir = errors.New("artifact path is a directory")

func (s *Synchronizer) writeArtifact(path string, content []byte) error {
	entry, err := s.store.Stat(path)
	switch {
	case err == nil && entry.IsDir:
		return fmt.Errorf("%s: %w", path, errArtifactIsDir)
	case err == nil:
		return s.store.Modify(path, content)
	case !errors.Is(err, apperr.ErrNotFound):
		return err
	}
	// Only a file appearing between Stat and Create is a benign race.
	if err := s.store.Create(path, content); err != nil && !apperr.IsAlreadyExists(err) {
		return err
	}
	return nil
}

// upsertHeadings mirrors headings into the search index, skipping unchanged content.
func (s *Synchronizer) upsertHeadings(doc models.Document, data []byte, headings []models.Heading) {
	cs := checksum.Sum(data)
	stored, err := s.headings.GetChecksum(doc.Path)
	if err == nil && stored == cs {
		return
	}
	updated := doc.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	row := OutlineRow{Path: doc.Path, Checksum: cs, UpdatedAt: updated}
	if err := s.headings.UpsertOutline(row, headings); err != nil {
		s.logger.Warn("sync: heading index update failed", slog.String("path", doc.Path), slog.String("error", err.Error()))
	}
}
