// Package models defines the domain types shared by the indexer and the link resolver.
package models

import (
	"path"
	"strings"
	"time"
)

// Document is a stored unit of markup content. Content is never held here;
// it is read from storage on demand.
type Document struct {
	Path      string    `json:"path"`
	Basename  string    `json:"basename"`
	Extension string    `json:"extension"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDocument derives basename and extension from a slash-separated path.
func NewDocument(p string) Document {
	name := path.Base(p)
	ext := path.Ext(name)
	return Document{
		Path:      p,
		Basename:  strings.TrimSuffix(name, ext),
		Extension: strings.TrimPrefix(ext, "."),
	}
}

// Entry is an abstract storage entry: a file or a directory.
type Entry struct {
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
}

// Heading is a single heading line extracted from a document.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Line  int    `json:"line"` // zero-based
}

// ReferenceSource records which matcher produced a LinkReference.
type ReferenceSource string

const (
	SourceParsed   ReferenceSource = "parsed"
	SourceFallback ReferenceSource = "fallback-text"
)

// LinkReference is the parsed intent of a clicked anchor, before resolution.
type LinkReference struct {
	Raw      string          `json:"raw"`
	Document string          `json:"document,omitempty"`
	Fragment string          `json:"fragment"`
	Source   ReferenceSource `json:"source"`
}
