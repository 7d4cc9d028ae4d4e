package resolver

import (
	"context"
	"log/slog"
	"sync"

	"github.com/starford/mdxoutline/internal/events"
	"github.com/starford/mdxoutline/internal/linkref"
)

// ClickHandler reacts to clicks on heading links.
type ClickHandler struct {
	parser       *linkref.Parser
	resolver     *Resolver
	editor       Editor
	selector     string
	overrideAttr string
	logger       *slog.Logger

	// mu keeps the active-document read and the resolution together, so a
	// same-document link is resolved against the document it was clicked in.
	mu sync.Mutex
}

// NewClickHandler wires the parser and resolver to anchors matching selector.
// overrideAttr names the attribute preferred over href.
func NewClickHandler(p *linkref.Parser, r *Resolver, editor Editor, selector, overrideAttr string, logger *slog.Logger) *ClickHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClickHandler{
		parser:       p,
		resolver:     r,
		editor:       editor,
		selector:     selector,
		overrideAttr: overrideAttr,
		logger:       logger,
	}
}

// HandleClick resolves the clicked anchor. Clicks that are not on a matching
// anchor or do not form a valid reference are left alone. Once a reference is
// valid the default action is suppressed, whatever resolution finds.
func (h *ClickHandler) HandleClick(ctx context.Context, click *events.Click) {
	if click == nil || click.Target() == nil {
		return
	}
	anchor, ok := click.Target().Closest(h.selector)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	in := linkref.Input{
		Raw:  linkref.RawReference(anchor, h.overrideAttr),
		Text: anchor.Text(),
	}
	if doc, ok := h.editor.Active(); ok {
		in.Active = doc.Path
	}
	ref, ok := h.parser.Parse(in)
	if !ok {
		return
	}
	click.PreventDefault()

	res, err := h.resolver.Resolve(ctx, ref)
	if err != nil {
		h.logger.Warn("click: resolve failed",
			slog.String("click_id", click.ID()),
			slog.String("raw", ref.Raw),
			slog.String("error", err.Error()))
		return
	}
	h.logger.Debug("click: resolved",
		slog.String("click_id", click.ID()),
		slog.String("document", ref.Document),
		slog.String("fragment", ref.Fragment),
		slog.String("outcome", string(res.Outcome)))
}
