package index

import "github.com/starford/mdxoutline/internal/models"

// HeadingIndex is the searchable side of the outline mirror.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type HeadingIndex interface {
	UpsertOutline(row OutlineRow, headings []models.Heading) error
	GetChecksum(path string) (string, error)
	Headings(path string) ([]models.Heading, error)
	ListOutlines() ([]OutlineRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies HeadingIndex at compile time.
var _ HeadingIndex = (*DB)(nil)
