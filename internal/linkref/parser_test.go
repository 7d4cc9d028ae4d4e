package linkref

import (
	"testing"

	"github.com/starford/mdxoutline/internal/models"
)

func TestParse(t *testing.T) {
	p := NewParser("mdx")

	tests := []struct {
		name   string
		in     Input
		want   models.LinkReference
		wantOK bool
	}{
		{
			name:   "cross document",
			in:     Input{Raw: "notes#Intro"},
			want:   models.LinkReference{Raw: "notes#Intro", Document: "notes", Fragment: "Intro", Source: models.SourceParsed},
			wantOK: true,
		},
		{
			name:   "cross document strips managed extension",
			in:     Input{Raw: "docs/notes.mdx#Intro", Active: "other.mdx"},
			want:   models.LinkReference{Raw: "docs/notes.mdx#Intro", Document: "docs/notes", Fragment: "Intro", Source: models.SourceParsed},
			wantOK: true,
		},
		{
			name:   "other extension kept",
			in:     Input{Raw: "notes.md#Intro"},
			want:   models.LinkReference{Raw: "notes.md#Intro", Document: "notes.md", Fragment: "Intro", Source: models.SourceParsed},
			wantOK: true,
		},
		{
			name:   "same document uses active basename",
			in:     Input{Raw: "#Setup", Active: "folder/guide.mdx"},
			want:   models.LinkReference{Raw: "#Setup", Document: "guide", Fragment: "Setup", Source: models.SourceParsed},
			wantOK: true,
		},
		{
			name:   "fragment is percent-decoded",
			in:     Input{Raw: "notes#Getting%20Started", Active: "a.mdx"},
			want:   models.LinkReference{Raw: "notes#Getting%20Started", Document: "notes", Fragment: "Getting Started", Source: models.SourceParsed},
			wantOK: true,
		},
		{
			name:   "plus sign is not a space",
			in:     Input{Raw: "notes#C++"},
			want:   models.LinkReference{Raw: "notes#C++", Document: "notes", Fragment: "C++", Source: models.SourceParsed},
			wantOK: true,
		},
		{
			name:   "malformed escape kept as written",
			in:     Input{Raw: "notes#100%"},
			want:   models.LinkReference{Raw: "notes#100%", Document: "notes", Fragment: "100%", Source: models.SourceParsed},
			wantOK: true,
		},
		{
			name:   "fragment keeps later hashes",
			in:     Input{Raw: "notes#C#"},
			want:   models.LinkReference{Raw: "notes#C#", Document: "notes", Fragment: "C#", Source: models.SourceParsed},
			wantOK: true,
		},
		{
			name:   "fallback to visible text",
			in:     Input{Raw: "notes", Text: "  Overview ", Active: "guide.mdx"},
			want:   models.LinkReference{Raw: "notes", Document: "guide", Fragment: "Overview", Source: models.SourceFallback},
			wantOK: true,
		},
		{
			name:   "empty raw falls back to text",
			in:     Input{Text: "Overview", Active: "guide.mdx"},
			want:   models.LinkReference{Document: "guide", Fragment: "Overview", Source: models.SourceFallback},
			wantOK: true,
		},
		{
			name:   "same document without active is invalid",
			in:     Input{Raw: "#Setup"},
			wantOK: false,
		},
		{
			name:   "fallback without text is invalid",
			in:     Input{Raw: "notes", Text: "   ", Active: "guide.mdx"},
			wantOK: false,
		},
		{
			name:   "fallback without active is invalid",
			in:     Input{Raw: "https://example.com", Text: "Example"},
			wantOK: false,
		},
		{
			name:   "bare extension name falls through",
			in:     Input{Raw: ".mdx#Intro", Text: "Intro", Active: "guide.mdx"},
			want:   models.LinkReference{Raw: ".mdx#Intro", Document: "guide", Fragment: "Intro", Source: models.SourceFallback},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Parse(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (ref %+v)", ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Errorf("ref = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRawReference_PrefersOverride(t *testing.T) {
	el := &Node{Tag: "a", Attrs: map[string]string{"href": "app://x", "data-href": "notes#Intro"}}
	if got := RawReference(el, "data-href"); got != "notes#Intro" {
		t.Errorf("RawReference = %q", got)
	}
	el = &Node{Tag: "a", Attrs: map[string]string{"href": "#Setup", "data-href": ""}}
	if got := RawReference(el, "data-href"); got != "#Setup" {
		t.Errorf("RawReference = %q, want href when override empty", got)
	}
	if got := RawReference(&Node{Tag: "a"}, "data-href"); got != "" {
		t.Errorf("RawReference = %q, want empty", got)
	}
}

func TestNode_Closest(t *testing.T) {
	anchor := &Node{Tag: "A", Classes: []string{"internal-link"}, Attrs: map[string]string{"href": "x#y"}}
	span := &Node{Tag: "span", Content: "y", Parent: anchor}
	em := &Node{Tag: "em", Parent: span}

	got, ok := em.Closest("a.internal-link")
	if !ok || got != anchor {
		t.Fatalf("Closest = %v, %v", got, ok)
	}
	if got, ok := anchor.Closest("a"); !ok || got != anchor {
		t.Errorf("self should match")
	}
	if _, ok := em.Closest("a.external-link"); ok {
		t.Error("class mismatch should not match")
	}
	if got, ok := em.Closest(".internal-link"); !ok || got != anchor {
		t.Error("class-only selector should match")
	}
}

func TestNewAnchor_MatchesSelector(t *testing.T) {
	for _, sel := range []string{"a.internal-link", ".internal-link", "a"} {
		n := NewAnchor(sel, "doc#H", "H")
		if _, ok := n.Closest(sel); !ok {
			t.Errorf("anchor for %q does not match it", sel)
		}
		if v, _ := n.Attr("href"); v != "doc#H" {
			t.Errorf("href = %q", v)
		}
	}
}
