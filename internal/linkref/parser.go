// Package linkref turns a clicked anchor into a structured heading reference.
package linkref

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/starford/mdxoutline/internal/models"
)

var (
	crossDocRe = regexp.MustCompile(`^([^#]+)#(.+)$`)
	sameDocRe  = regexp.MustCompile(`^#(.+)$`)
)

// Input is everything the parser may draw on for one click.
type Input struct {
	Raw    string // override attribute if present, else href
	Text   string // visible anchor text
	Active string // path of the active document, "" when none
}

// Matcher is one strategy in the fallback chain. It returns the target
// document name (possibly empty) and the still-encoded fragment.
type Matcher interface {
	Match(in Input) (doc, fragment string, source models.ReferenceSource, ok bool)
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(in Input) (string, string, models.ReferenceSource, bool)

func (f MatcherFunc) Match(in Input) (string, string, models.ReferenceSource, bool) {
	return f(in)
}

// Parser applies its matchers in order; the first hit wins.
type Parser struct {
	ext      string
	matchers []Matcher
}

// NewParser returns a parser for the managed extension ext (without dot)
// using the standard chain: cross-document, same-document, visible text.
func NewParser(ext string) *Parser {
	p := &Parser{ext: strings.TrimPrefix(ext, ".")}
	p.matchers = []Matcher{
		MatcherFunc(p.matchCrossDocument),
		MatcherFunc(p.matchSameDocument),
		MatcherFunc(p.matchVisibleText),
	}
	return p
}

// Parse derives a LinkReference. ok is false when no document name or no
// fragment can be established; the click is then ignored.
func (p *Parser) Parse(in Input) (models.LinkReference, bool) {
	for _, m := range p.matchers {
		doc, frag, src, ok := m.Match(in)
		if !ok {
			continue
		}
		ref := models.LinkReference{
			Raw:      in.Raw,
			Document: doc,
			Fragment: decodeFragment(frag),
			Source:   src,
		}
		if ref.Document == "" || ref.Fragment == "" {
			return models.LinkReference{}, false
		}
		return ref, true
	}
	return models.LinkReference{}, false
}

func (p *Parser) matchCrossDocument(in Input) (string, string, models.ReferenceSource, bool) {
	m := crossDocRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return "", "", "", false
	}
	name := m[1]
	if p.ext != "" {
		name = strings.TrimSuffix(name, "."+p.ext)
	}
	if name == "" {
		return "", "", "", false
	}
	return name, m[2], models.SourceParsed, true
}

func (p *Parser) matchSameDocument(in Input) (string, string, models.ReferenceSource, bool) {
	m := sameDocRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return "", "", "", false
	}
	return activeName(in.Active), m[1], models.SourceParsed, true
}

func (p *Parser) matchVisibleText(in Input) (string, string, models.ReferenceSource, bool) {
	return activeName(in.Active), strings.TrimSpace(in.Text), models.SourceFallback, true
}

// activeName is the active document's basename without extension.
func activeName(active string) string {
	if active == "" {
		return ""
	}
	base := path.Base(active)
	return strings.TrimSuffix(base, path.Ext(base))
}

// decodeFragment percent-decodes like decodeURIComponent ('+' stays '+').
// Malformed escapes leave the fragment as written.
func decodeFragment(frag string) string {
	dec, err := url.PathUnescape(frag)
	if err != nil {
		return frag
	}
	return dec
}

// RawReference picks the override attribute over href.
func RawReference(el Element, overrideAttr string) string {
	if overrideAttr != "" {
		if v, ok := el.Attr(overrideAttr); ok && v != "" {
			return v
		}
	}
	v, _ := el.Attr("href")
	return v
}
