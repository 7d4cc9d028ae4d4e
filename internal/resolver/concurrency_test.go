package resolver

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/starford/mdxoutline/internal/events"
	"github.com/starford/mdxoutline/internal/linkref"
	"github.com/starford/mdxoutline/internal/models"
	"github.com/starford/mdxoutline/internal/storage"
)

// cursorMove is one SetCursor call and the document active at that moment.
type cursorMove struct {
	path string
	line int
}

// gatedEditor is a thread-safe single-surface editor whose Lines call for
// one path blocks until gate is closed.
type gatedEditor struct {
	store    *storage.Memory
	gatePath string
	gate     chan struct{}
	entered  chan struct{}

	mu     sync.Mutex
	active *models.Document
	moves  []cursorMove
	opens  []string
}

func newGatedEditor(store *storage.Memory, gatePath string) *gatedEditor {
	return &gatedEditor{
		store:    store,
		gatePath: gatePath,
		gate:     make(chan struct{}),
		entered:  make(chan struct{}, 1),
	}
}

func (e *gatedEditor) Active() (models.Document, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return models.Document{}, false
	}
	return *e.active, true
}

func (e *gatedEditor) Open(_ context.Context, doc models.Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = &doc
	e.opens = append(e.opens, doc.Path)
	return nil
}

func (e *gatedEditor) Lines(context.Context) ([]string, error) {
	e.mu.Lock()
	path := e.active.Path
	e.mu.Unlock()

	if path == e.gatePath {
		select {
		case e.entered <- struct{}{}:
		default:
		}
		<-e.gate
	}
	data, err := e.store.Read(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}

func (e *gatedEditor) SetCursor(_ context.Context, pos Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moves = append(e.moves, cursorMove{path: e.active.Path, line: pos.Line})
	return nil
}

func (e *gatedEditor) ScrollIntoView(context.Context, Position, Position) error { return nil }

func (e *gatedEditor) snapshot() ([]cursorMove, []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]cursorMove(nil), e.moves...), append([]string(nil), e.opens...)
}

func TestResolve_OverlappingReferencesDoNotInterleave(t *testing.T) {
	store := storage.NewMemory()
	store.Put("a.mdx", "# A\n\n\n\n\n## Deep")
	store.Put("b.mdx", "# Top")
	ed := newGatedEditor(store, "a.mdx")
	r := New(store, ed, "mdx", quietLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	var resA, resB Result
	wg.Add(1)
	go func() {
		defer wg.Done()
		resA, _ = r.Resolve(ctx, models.LinkReference{Document: "a", Fragment: "Deep"})
	}()
	<-ed.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		resB, _ = r.Resolve(ctx, models.LinkReference{Document: "b", Fragment: "Top"})
	}()

	// Give the second resolution a chance to run ahead if nothing stops it.
	time.Sleep(50 * time.Millisecond)
	if _, opens := ed.snapshot(); len(opens) != 1 {
		t.Errorf("second document opened while the first resolution was in flight: %v", opens)
	}
	close(ed.gate)
	wg.Wait()

	if resA.Line != 5 || resB.Line != 0 {
		t.Fatalf("resA = %+v, resB = %+v", resA, resB)
	}
	moves, _ := ed.snapshot()
	want := []cursorMove{{"a.mdx", 5}, {"b.mdx", 0}}
	if len(moves) != len(want) {
		t.Fatalf("moves = %+v", moves)
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("move %d = %+v, want %+v", i, moves[i], want[i])
		}
	}
}

func TestHandleClick_ConcurrentClicksLandOnTheirOwnDocument(t *testing.T) {
	store := storage.NewMemory()
	store.Put("a.mdx", "# A\n\n\n\n\n## Deep")
	store.Put("b.mdx", "# Top")
	ed := newGatedEditor(store, "a.mdx")
	r := New(store, ed, "mdx", quietLogger())
	h := NewClickHandler(linkref.NewParser("mdx"), r, ed, "a.internal-link", "data-href", quietLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.HandleClick(ctx, events.NewClick(anchor(map[string]string{"href": "a#Deep"}, "Deep")))
	}()
	<-ed.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.HandleClick(ctx, events.NewClick(anchor(map[string]string{"href": "b#Top"}, "Top")))
	}()
	time.Sleep(50 * time.Millisecond)
	close(ed.gate)
	wg.Wait()

	moves, _ := ed.snapshot()
	for _, m := range moves {
		if m.path == "b.mdx" && m.line != 0 {
			t.Errorf("cursor line %d placed in one-line b.mdx", m.line)
		}
	}
	active, _ := ed.Active()
	if last := moves[len(moves)-1]; last.path != active.Path {
		t.Errorf("last cursor move %+v does not belong to active %s", last, active.Path)
	}
}
