package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/mdxoutline/internal/outlineservice"
)

const defaultSearchLimit = 20

// Handler holds API route handlers.
type Handler struct {
	svc *outlineservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *outlineservice.Service) *Handler {
	return &Handler{svc: svc}
}

// docPath extracts the document path from the wildcard segment.
// Supports encoded slashes (e.g. notes%2Fguide.mdx).
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// writeServiceError maps domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, op, path string, err error) {
	if outlineservice.IsNotFound(err) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	slog.Error("api: "+op+" failed", slog.String("path", path), slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List vault documents with a registered content type
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	DocumentListResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		writeServiceError(w, "list documents", "", err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: items})
}

// ListOutlines handles GET /api/outlines.
//
//	@Summary		List indexed outlines
//	@Tags			outlines
//	@Produce		json
//	@Success		200	{object}	OutlineListResponse
//	@Security		BearerAuth
//	@Router			/outlines [get]
func (h *Handler) ListOutlines(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListOutlines(r.Context())
	if err != nil {
		writeServiceError(w, "list outlines", "", err)
		return
	}
	writeJSON(w, http.StatusOK, OutlineListResponse{Outlines: items})
}

// GetOutline handles GET /api/outlines/*.
//
//	@Summary		Get the mirrored outline of a document
//	@Tags			outlines
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	OutlineDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/outlines/{path} [get]
func (h *Handler) GetOutline(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	out, err := h.svc.GetOutline(r.Context(), path)
	if err != nil {
		writeServiceError(w, "get outline", path, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ReindexOutline handles POST /api/outlines/*.
//
//	@Summary		Re-mirror one document's outline now
//	@Tags			outlines
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	OutlineDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/outlines/{path} [post]
func (h *Handler) ReindexOutline(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	out, err := h.svc.Reindex(r.Context(), path)
	if err != nil {
		writeServiceError(w, "reindex", path, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ReindexAll handles POST /api/reindex.
//
//	@Summary		Re-mirror every managed document
//	@Tags			outlines
//	@Success		202	"Reindex finished"
//	@Security		BearerAuth
//	@Router			/reindex [post]
func (h *Handler) ReindexAll(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ReindexAll(r.Context()); err != nil {
		writeServiceError(w, "reindex all", "", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "ok"})
}

// SearchHeadings handles GET /api/headings/search.
//
//	@Summary		Search headings across indexed documents
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	HeadingSearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/headings/search [get]
func (h *Handler) SearchHeadings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	results, err := h.svc.SearchHeadings(r.Context(), q, limit)
	if err != nil {
		slog.Error("api: search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, HeadingSearchResponse{Results: results})
}

// Click handles POST /api/clicks.
//
//	@Summary		Dispatch a click on a rendered element
//	@Tags			editor
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ClickRequest	true	"Clicked element"
//	@Success		200		{object}	ClickResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/clicks [post]
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Target == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("target is required"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Click(r.Context(), req.Target))
}

// EditorState handles GET /api/editor.
//
//	@Summary		Get the editor state
//	@Tags			editor
//	@Produce		json
//	@Success		200	{object}	editor.State
//	@Security		BearerAuth
//	@Router			/editor [get]
func (h *Handler) EditorState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.EditorState())
}

// SetActive handles PUT /api/editor/active.
//
//	@Summary		Switch the active document
//	@Tags			editor
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SetActiveRequest	true	"Document to activate"
//	@Success		200		{object}	editor.State
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/editor/active [put]
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	st, err := h.svc.Activate(r.Context(), req.Path)
	if err != nil {
		writeServiceError(w, "activate", req.Path, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// PutBuffer handles PUT /api/editor/buffers/*.
//
//	@Summary		Store unsaved editor content
//	@Tags			editor
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string			true	"Document path"
//	@Param			body	body		BufferRequest	true	"Unsaved content"
//	@Success		200		{object}	editor.State
//	@Security		BearerAuth
//	@Router			/editor/buffers/{path} [put]
func (h *Handler) PutBuffer(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req BufferRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.SetBuffer(path, req.Content))
}

// DeleteBuffer handles DELETE /api/editor/buffers/*.
//
//	@Summary		Discard unsaved editor content
//	@Tags			editor
//	@Param			path	path	string	true	"Document path"
//	@Success		200		{object}	editor.State
//	@Security		BearerAuth
//	@Router			/editor/buffers/{path} [delete]
func (h *Handler) DeleteBuffer(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.DiscardBuffer(path))
}
