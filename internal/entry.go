// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/mdxoutline/internal/api"
	"github.com/starford/mdxoutline/internal/editor"
	"github.com/starford/mdxoutline/internal/events"
	"github.com/starford/mdxoutline/internal/index"
	"github.com/starford/mdxoutline/internal/linkref"
	"github.com/starford/mdxoutline/internal/mcpserver"
	"github.com/starford/mdxoutline/internal/models"
	"github.com/starford/mdxoutline/internal/outlineservice"
	"github.com/starford/mdxoutline/internal/plugin"
	"github.com/starford/mdxoutline/internal/registry"
	"github.com/starford/mdxoutline/internal/resolver"
	"github.com/starford/mdxoutline/internal/sse"
	"github.com/starford/mdxoutline/internal/storage"
)

// components is the wired object graph shared by every command.
type components struct {
	logger   *slog.Logger
	store    *storage.FS
	db       *index.DB
	broker   *sse.Broker
	modified *events.Bus[models.Document]
	plugin   *plugin.Plugin
	svc      *outlineservice.Service
}

func (c *components) close() {
	c.broker.Close()
	if err := c.db.Close(); err != nil {
		c.logger.Warn("close index failed", slog.String("error", err.Error()))
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logOutput == nil {
		app.logOutput = os.Stdout
	}
	return app, nil
}

func newLogger(cfg *Config, out io.Writer) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// wire builds every component without starting anything.
func wire(cfg *Config, logger *slog.Logger) (*components, error) {
	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("extension", cfg.Markup.Extension),
		slog.String("cache_dir", cfg.Cache.Dir),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	broker := sse.NewBroker(2 * time.Second)
	host := plugin.Host{
		Registry: registry.New(),
		Modified: events.NewBus[models.Document](),
		Clicks:   events.NewBus[*events.Click](),
	}
	ws := editor.NewWorkspace(store, broker)

	sync := index.NewSynchronizer(store, cfg.Markup.Extension, cfg.Cache.Dir, logger,
		index.WithHeadingIndex(db),
		index.WithCallback(broker.PublishOutline),
	)
	res := resolver.New(store, ws, cfg.Markup.Extension, logger)
	clicks := resolver.NewClickHandler(linkref.NewParser(cfg.Markup.Extension), res, ws,
		cfg.Links.Selector, cfg.Links.OverrideAttr, logger)

	return &components{
		logger:   logger,
		store:    store,
		db:       db,
		broker:   broker,
		modified: host.Modified,
		plugin:   plugin.New(host, cfg.Markup.Extension, cfg.Markup.ContentType, sync, clicks, logger),
		svc:      outlineservice.NewService(store, sync, db, ws, host.Clicks, host.Registry),
	}, nil
}

// Run starts the HTTP server and the vault watcher.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(cfg, app.logOutput)

	c, err := wire(cfg, logger)
	if err != nil {
		return err
	}
	defer c.close()

	if err := c.plugin.Load(ctx); err != nil {
		return fmt.Errorf("load plugin: %w", err)
	}
	defer c.plugin.Unload()

	apiRouter := api.NewRouter(c.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, c.broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := c.db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Modified documents flow through the bus so Unload detaches indexing.
	g.Go(func() error {
		return index.Watch(gCtx, c.store.Root(), logger, c.modified.Emit)
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// Index runs one full indexing pass and exits.
func Index(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := newLogger(app.config, app.logOutput)

	c, err := wire(app.config, logger)
	if err != nil {
		return err
	}
	defer c.close()

	return c.svc.ReindexAll(ctx)
}

// ServeMCP loads the plugin and serves MCP tools on stdio. Logs go to the
// configured output, which must not be stdout.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	if app.logOutput == os.Stdout {
		app.logOutput = os.Stderr
	}
	cfg := app.config
	logger := newLogger(cfg, app.logOutput)

	c, err := wire(cfg, logger)
	if err != nil {
		return err
	}
	defer c.close()

	if err := c.plugin.Load(ctx); err != nil {
		return fmt.Errorf("load plugin: %w", err)
	}
	defer c.plugin.Unload()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Keep outlines fresh while a client is attached.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return mcpserver.New(c.svc, cfg.Links.Selector).ServeStdio()
	})
	g.Go(func() error {
		return index.Watch(gCtx, c.store.Root(), logger, c.modified.Emit)
	})
	return g.Wait()
}
