package events

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/starford/mdxoutline/internal/linkref"
)

// Click is a UI click on some element.
type Click struct {
	id        string
	target    linkref.Element
	prevented atomic.Bool
}

// NewClick wraps the clicked element.
func NewClick(target linkref.Element) *Click {
	return &Click{id: uuid.NewString(), target: target}
}

// ID identifies the click in logs and responses.
func (c *Click) ID() string { return c.id }

// Target returns the element that received the click.
func (c *Click) Target() linkref.Element { return c.target }

// PreventDefault suppresses the host's default navigation for this click.
func (c *Click) PreventDefault() { c.prevented.Store(true) }

// DefaultPrevented reports whether a handler suppressed the default action.
func (c *Click) DefaultPrevented() bool { return c.prevented.Load() }
