package golink

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/golinkhq/golinks/internal/errx"
	"github.com/golinkhq/golinks/internal/httpx"
)

// CreateGolinkRequest is the JSON body for creating a link.
type CreateGolinkRequest struct {
	ShortLink string `json:"short_link"`
	URL       string `json:"url"`
}

// UpdateGolinkRequest is the JSON body for updating a link's URL.
type UpdateGolinkRequest struct {
	URL string `json:"url"`
}

// PaginatedResponse wraps a page of links with its metadata.
type PaginatedResponse struct {
	Data       []LinkJSON `json:"data"`
	Pagination PageMeta   `json:"pagination"`
}

// Handler provides the HTTP handlers for the golink registry.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Logger  *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		service: cfg.Service,
		logger:  logger,
	}
}

// CreateGolink handles POST /golinks.
func (h *Handler) CreateGolink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[CreateGolinkRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	link, err := h.service.Create(ctx, req.ShortLink, req.URL)
	if err != nil {
		h.handleError(ctx, w, err, "create golink failed")
		return
	}

	logger.InfoContext(ctx, "golink created",
		"short_link", link.ShortLink,
		"link_id", link.ID.String(),
	)

	httpx.WriteJSON(w, http.StatusCreated, link.ToJSON())
}

// GetGolink handles GET /golinks/go/{name}.
func (h *Handler) GetGolink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	link, err := h.service.Get(ctx, shortLinkFromPath(r))
	if err != nil {
		h.handleError(ctx, w, err, "get golink failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, link.ToJSON())
}

// ListGolinks handles GET /golinks. Without pagination query
// parameters the response is a bare array; with either parameter it is
// a {data, pagination} wrapper.
func (h *Handler) ListGolinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.service.List(ctx, listParamsFromQuery(r))
	if err != nil {
		h.handleError(ctx, w, err, "list golinks failed")
		return
	}

	data := make([]LinkJSON, 0, len(result.Links))
	for _, link := range result.Links {
		data = append(data, link.ToJSON())
	}

	if result.Meta == nil {
		httpx.WriteJSON(w, http.StatusOK, data)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		Pagination: *result.Meta,
	})
}

// UpdateGolink handles PUT /golinks/go/{name}.
func (h *Handler) UpdateGolink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[UpdateGolinkRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	link, err := h.service.Update(ctx, shortLinkFromPath(r), req.URL)
	if err != nil {
		h.handleError(ctx, w, err, "update golink failed")
		return
	}

	logger.InfoContext(ctx, "golink updated", "short_link", link.ShortLink)

	httpx.WriteJSON(w, http.StatusOK, link.ToJSON())
}

// DeleteGolink handles DELETE /golinks/go/{name}.
func (h *Handler) DeleteGolink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	shortLink := shortLinkFromPath(r)
	if err := h.service.Delete(ctx, shortLink); err != nil {
		h.handleError(ctx, w, err, "delete golink failed")
		return
	}

	logger.InfoContext(ctx, "golink deleted", "short_link", shortLink)

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "golink deleted",
	})
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// handleError maps a service error to an HTTP response by its errx
// kind, using the httpx kind-to-status/code tables. The facade returns
// kinds verbatim, so this is the single call site for that mapping.
func (h *Handler) handleError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind.String(),
		"operation", errx.OpOf(err),
	}

	var message string
	switch kind {
	case errx.NotFound:
		h.logger.WarnContext(ctx, msg, logAttrs...)
		message = "golink not found"

	case errx.Conflict:
		h.logger.WarnContext(ctx, msg, logAttrs...)
		message = "golink already exists"

	case errx.Invalid:
		h.logger.WarnContext(ctx, msg, logAttrs...)
		message = err.Error()

	case errx.Unavailable:
		h.logger.ErrorContext(ctx, msg, logAttrs...)
		message = "storage backend unavailable, please retry"

	default:
		h.logger.ErrorContext(ctx, msg, logAttrs...)
		message = "an unexpected error occurred"
	}

	httpx.WriteError(w, httpx.ErrorKindToStatus(kind), httpx.ErrorKindToCode(kind), message, nil)
}

// shortLinkFromPath rebuilds the full short-link name from the route's
// {name} segment. Routes carry the literal "go/" prefix, so only the
// trailing name varies.
func shortLinkFromPath(r *http.Request) string {
	return "go/" + r.PathValue("name")
}

// listParamsFromQuery reads page/page_size. A parameter that is
// present but unparsable still requests pagination and falls back to
// its default, matching the historical behavior of this API.
func listParamsFromQuery(r *http.Request) ListParams {
	query := r.URL.Query()
	params := ListParams{}

	if query.Has("page") {
		page := DefaultPage
		if v, err := strconv.Atoi(query.Get("page")); err == nil {
			page = v
		}
		params.Page = &page
	}

	if query.Has("page_size") {
		pageSize := DefaultPageSize
		if v, err := strconv.Atoi(query.Get("page_size")); err == nil {
			pageSize = v
		}
		params.PageSize = &pageSize
	}

	return params
}
