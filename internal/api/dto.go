package api

import (
	"github.com/starford/mdxoutline/internal/index"
	"github.com/starford/mdxoutline/internal/linkref"
	"github.com/starford/mdxoutline/internal/outlineservice"
)

// OutlineDetail is the outline response type (aliased from the domain layer).
type OutlineDetail = outlineservice.OutlineDetail

// OutlineListResponse wraps indexed outline summaries.
type OutlineListResponse struct {
	Outlines []outlineservice.OutlineListItem `json:"outlines" validate:"required"`
}

// DocumentListResponse wraps registered vault documents.
type DocumentListResponse struct {
	Documents []outlineservice.DocumentItem `json:"documents" validate:"required"`
}

// HeadingSearchResponse wraps heading search hits.
type HeadingSearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// ClickRequest describes the element a client clicked. Target is the
// innermost element; ancestors hang off Parent.
type ClickRequest struct {
	Target *linkref.Node `json:"target" validate:"required"`
}

// ClickResponse reports whether the click was handled and where the
// editor ended up.
type ClickResponse = outlineservice.ClickResult

// SetActiveRequest switches the editor's active document.
type SetActiveRequest struct {
	Path string `json:"path" example:"notes/guide.mdx" validate:"required"`
}

// BufferRequest carries unsaved editor content.
type BufferRequest struct {
	Content string `json:"content" example:"# Guide\n## Draft"`
}
