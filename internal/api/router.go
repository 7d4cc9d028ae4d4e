package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/mdxoutline/internal/outlineservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *outlineservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/documents", h.ListDocuments)

	r.Get("/outlines", h.ListOutlines)
	r.Get("/outlines/*", h.GetOutline)
	r.Post("/outlines/*", h.ReindexOutline)
	r.Post("/reindex", h.ReindexAll)

	r.Get("/headings/search", h.SearchHeadings)

	r.Post("/clicks", h.Click)

	r.Get("/editor", h.EditorState)
	r.Put("/editor/active", h.SetActive)
	r.Put("/editor/buffers/*", h.PutBuffer)
	r.Delete("/editor/buffers/*", h.DeleteBuffer)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
