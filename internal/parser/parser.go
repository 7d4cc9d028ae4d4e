// Package parser extracts heading structure from markup content.
package parser

import (
	"regexp"
	"strings"

	"github.com/starford/mdxoutline/internal/models"
)

// headingRe matches 1–6 leading '#' followed by at least one whitespace character.
// Fenced code blocks are not tracked; a '#' line inside one is still a heading.
var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)`)

// ExtractHeadings scans content line by line and returns every heading in source order.
func ExtractHeadings(content string) []models.Heading {
	out := []models.Heading{}
	if content == "" {
		return out
	}
	for i, line := range strings.Split(content, "\n") {
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, models.Heading{
			Level: len(m[1]),
			Text:  strings.TrimSpace(m[2]),
			Line:  i,
		})
	}
	return out
}

// Serialize renders headings as one "## text" line each, joined by newlines.
func Serialize(headings []models.Heading) string {
	lines := make([]string, len(headings))
	for i, h := range headings {
		lines[i] = strings.Repeat("#", h.Level) + " " + h.Text
	}
	return strings.Join(lines, "\n")
}

// ParseOutline reads back a serialized outline. Line indexes refer to the
// outline itself, not to the source document.
func ParseOutline(outline string) []models.Heading {
	return ExtractHeadings(outline)
}
