// Package plugin owns the registrations that connect host events to the
// indexer and the link resolver.
package plugin

import (
	"context"
	"log/slog"
	"sync"

	"github.com/starford/mdxoutline/internal/events"
	"github.com/starford/mdxoutline/internal/index"
	"github.com/starford/mdxoutline/internal/models"
	"github.com/starford/mdxoutline/internal/registry"
	"github.com/starford/mdxoutline/internal/resolver"
)

// Host bundles the collaborators the plugin registers with.
type Host struct {
	Registry *registry.Registry
	Modified *events.Bus[models.Document]
	Clicks   *events.Bus[*events.Click]
}

// Plugin wires the synchronizer and click handler into a Host.
type Plugin struct {
	host        Host
	ext         string
	contentType string
	sync        *index.Synchronizer
	clicks      *resolver.ClickHandler
	logger      *slog.Logger

	mu        sync.Mutex
	disposers []events.Disposer
}

// New returns an unloaded plugin managing extension ext as contentType.
func New(host Host, ext, contentType string, s *index.Synchronizer, clicks *resolver.ClickHandler, logger *slog.Logger) *Plugin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Plugin{
		host:        host,
		ext:         ext,
		contentType: contentType,
		sync:        s,
		clicks:      clicks,
		logger:      logger,
	}
}

// Load registers the managed extension, indexes every document, then
// subscribes to modification and click events.
func (p *Plugin) Load(ctx context.Context) error {
	p.add(p.host.Registry.RegisterExtensions([]string{p.ext}, p.contentType))

	if err := p.sync.IndexAll(ctx); err != nil {
		p.logger.Warn("plugin: initial index failed", slog.String("error", err.Error()))
	}
	if err := ctx.Err(); err != nil {
		p.Unload()
		return err
	}

	p.add(p.host.Modified.Subscribe(p.sync.HandleModified))
	p.add(p.host.Clicks.Subscribe(p.clicks.HandleClick))

	p.logger.Info("plugin: loaded", slog.String("extension", p.ext))
	return nil
}

// Unload disposes every registration in reverse order.
func (p *Plugin) Unload() {
	p.mu.Lock()
	ds := p.disposers
	p.disposers = nil
	p.mu.Unlock()

	for i := len(ds) - 1; i >= 0; i-- {
		ds[i]()
	}
	p.logger.Info("plugin: unloaded")
}

func (p *Plugin) add(d events.Disposer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disposers = append(p.disposers, d)
}
