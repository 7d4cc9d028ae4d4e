// Package resolver turns a parsed link reference into an open document with
// the cursor on the referenced heading.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/starford/mdxoutline/internal/models"
)

// Position is a zero-based line/column cursor location.
type Position struct {
	Line int `json:"line"`
	Ch   int `json:"ch"`
}

// Editor is the editing surface the resolver drives.
type Editor interface {
	// Active returns the document shown in the current surface, if any.
	Active() (models.Document, bool)
	// Open shows doc in the current surface, replacing what was there.
	Open(ctx context.Context, doc models.Document) error
	// Lines returns the live text of the active surface, unsaved edits included.
	Lines(ctx context.Context) ([]string, error)
	SetCursor(ctx context.Context, pos Position) error
	ScrollIntoView(ctx context.Context, from, to Position) error
}

// Catalog enumerates known documents.
type Catalog interface {
	List() ([]models.Document, error)
}

// Outcome describes how far resolution got.
type Outcome string

const (
	// OutcomeNoDocument: no document matched; nothing was opened.
	OutcomeNoDocument Outcome = "no-document"
	// OutcomeOpened: the document was opened but no heading line matched.
	OutcomeOpened Outcome = "opened"
	// OutcomePositioned: the document was opened and the cursor placed.
	OutcomePositioned Outcome = "positioned"
)

// Result reports a resolution. Line is -1 unless Outcome is OutcomePositioned.
type Result struct {
	Outcome  Outcome `json:"outcome"`
	Document string  `json:"document,omitempty"`
	Line     int     `json:"line"`
}

// Resolver locates documents and heading lines for link references.
//
// The editor has a single surface, so resolutions run one at a time: the
// open, read and cursor steps of one reference never interleave with
// another's.
type Resolver struct {
	docs   Catalog
	editor Editor
	ext    string
	logger *slog.Logger

	mu sync.Mutex
}

// New returns a resolver for documents with extension ext (without dot).
func New(docs Catalog, editor Editor, ext string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		docs:   docs,
		editor: editor,
		ext:    strings.TrimPrefix(ext, "."),
		logger: logger,
	}
}

// Resolve opens the referenced document and moves the cursor to the first
// matching heading line. Misses are outcomes, not errors; errors come only
// from the catalog or the editor.
func (r *Resolver) Resolve(ctx context.Context, ref models.LinkReference) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	miss := Result{Outcome: OutcomeNoDocument, Line: -1}

	docs, err := r.docs.List()
	if err != nil {
		return miss, fmt.Errorf("resolver: list documents: %w", err)
	}
	doc, ok := FindDocument(docs, ref.Document, r.ext)
	if !ok {
		r.logger.Debug("resolver: no document", slog.String("document", ref.Document))
		return miss, nil
	}

	if err := r.editor.Open(ctx, doc); err != nil {
		return miss, fmt.Errorf("resolver: open %s: %w", doc.Path, err)
	}
	res := Result{Outcome: OutcomeOpened, Document: doc.Path, Line: -1}

	lines, err := r.editor.Lines(ctx)
	if err != nil {
		return res, fmt.Errorf("resolver: read %s: %w", doc.Path, err)
	}
	line := FindHeadingLine(lines, ref.Fragment)
	if line < 0 {
		r.logger.Debug("resolver: no heading",
			slog.String("path", doc.Path),
			slog.String("fragment", ref.Fragment))
		return res, nil
	}

	pos := Position{Line: line}
	if err := r.editor.SetCursor(ctx, pos); err != nil {
		return res, fmt.Errorf("resolver: set cursor: %w", err)
	}
	if err := r.editor.ScrollIntoView(ctx, pos, pos); err != nil {
		return res, fmt.Errorf("resolver: scroll: %w", err)
	}
	res.Outcome = OutcomePositioned
	res.Line = line
	return res, nil
}

// FindDocument returns the first document whose path ends with "<name>.<ext>".
// Ties are not disambiguated.
func FindDocument(docs []models.Document, name, ext string) (models.Document, bool) {
	if name == "" {
		return models.Document{}, false
	}
	suffix := name + "." + ext
	for _, d := range docs {
		if strings.HasSuffix(d.Path, suffix) {
			return d, true
		}
	}
	return models.Document{}, false
}

// FindHeadingLine returns the index of the first heading line containing
// fragment, or -1. Containment rather than equality tolerates punctuation
// and encoding drift between the link and the live heading text.
func FindHeadingLine(lines []string, fragment string) int {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.Contains(trimmed, fragment) {
			return i
		}
	}
	return -1
}
