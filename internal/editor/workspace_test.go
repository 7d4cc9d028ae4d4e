package editor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/starford/mdxoutline/internal/apperr"
	"github.com/starford/mdxoutline/internal/models"
	"github.com/starford/mdxoutline/internal/resolver"
	"github.com/starford/mdxoutline/internal/sse"
	"github.com/starford/mdxoutline/internal/storage"
)

type capture struct {
	mu     sync.Mutex
	events []sse.Event
}

func (c *capture) Publish(ev sse.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *capture) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Type
	}
	return out
}

func TestWorkspace_OpenAndNavigate(t *testing.T) {
	store := storage.NewMemory()
	store.Put("guide.mdx", "# Guide\n## Setup")
	pub := &capture{}
	w := NewWorkspace(store, pub)
	ctx := context.Background()

	if _, ok := w.Active(); ok {
		t.Fatal("fresh workspace has no active document")
	}
	if err := w.Open(ctx, models.NewDocument("guide.mdx")); err != nil {
		t.Fatalf("Open: %v", err)
	}
	lines, err := w.Lines(ctx)
	if err != nil || len(lines) != 2 || lines[1] != "## Setup" {
		t.Fatalf("Lines = %v, %v", lines, err)
	}
	pos := resolver.Position{Line: 1}
	_ = w.SetCursor(ctx, pos)
	_ = w.ScrollIntoView(ctx, pos, pos)

	st := w.State()
	if st.Active == nil || st.Active.Path != "guide.mdx" || st.Cursor != pos {
		t.Errorf("state = %+v", st)
	}
	got := pub.types()
	want := []string{sse.TypeEditorOpened, sse.TypeEditorCursor, sse.TypeEditorScrolled}
	if len(got) != len(want) {
		t.Fatalf("events = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestWorkspace_OpenResetsCursor(t *testing.T) {
	store := storage.NewMemory()
	w := NewWorkspace(store, nil)
	ctx := context.Background()
	_ = w.Open(ctx, models.NewDocument("a.mdx"))
	_ = w.SetCursor(ctx, resolver.Position{Line: 9})
	_ = w.Open(ctx, models.NewDocument("b.mdx"))

	st := w.State()
	if st.Cursor != (resolver.Position{}) || st.Active.Path != "b.mdx" || st.Revision != 2 {
		t.Errorf("state = %+v", st)
	}
}

func TestWorkspace_BufferWinsOverDisk(t *testing.T) {
	store := storage.NewMemory()
	store.Put("a.mdx", "saved")
	w := NewWorkspace(store, nil)
	ctx := context.Background()
	_ = w.Open(ctx, models.NewDocument("a.mdx"))

	w.SetBuffer("a.mdx", "unsaved\n# New")
	lines, _ := w.Lines(ctx)
	if len(lines) != 2 || lines[0] != "unsaved" {
		t.Errorf("lines = %v", lines)
	}

	w.DiscardBuffer("a.mdx")
	lines, _ = w.Lines(ctx)
	if len(lines) != 1 || lines[0] != "saved" {
		t.Errorf("lines after discard = %v", lines)
	}
}

func TestWorkspace_NoActive(t *testing.T) {
	w := NewWorkspace(storage.NewMemory(), nil)
	ctx := context.Background()
	if _, err := w.Lines(ctx); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Lines err = %v", err)
	}
	if err := w.SetCursor(ctx, resolver.Position{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("SetCursor err = %v", err)
	}
}

func TestWorkspace_DrivesResolver(t *testing.T) {
	store := storage.NewMemory()
	store.Put("notes.mdx", "# Notes\n## Intro")
	w := NewWorkspace(store, nil)
	r := resolver.New(store, w, "mdx", nil)

	res, err := r.Resolve(context.Background(), models.LinkReference{Document: "notes", Fragment: "Intro"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Outcome != resolver.OutcomePositioned || w.State().Cursor.Line != 1 {
		t.Errorf("result = %+v, state = %+v", res, w.State())
	}
}
