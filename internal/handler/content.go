package handler

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ideaforge/internal/domain"
	"ideaforge/internal/domain/models"
	"ideaforge/internal/httputil"
	"ideaforge/internal/service"
)

// GenerateLimiter caps how often a single owner can trigger generation.
type GenerateLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration)
}

// ContentHandler handles content HTTP requests
type ContentHandler struct {
	service *service.ContentService
	limiter GenerateLimiter // nil when rate limiting is disabled
	errors  *ErrorMapper
	logger  *slog.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(svc *service.ContentService, limiter GenerateLimiter, errors *ErrorMapper, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		service: svc,
		limiter: limiter,
		errors:  errors,
		logger:  logger,
	}
}

// Generate creates a new content record from a topic
// POST /content/generate
func (h *ContentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	if ownerID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing authentication")
		return
	}

	if h.limiter != nil {
		if ok, retryAfter := h.limiter.Allow(r.Context(), ownerID); !ok {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			httputil.RespondError(w, http.StatusTooManyRequests, "generation limit reached, try again shortly")
			return
		}
	}

	var req service.GenerateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.service.Generate(r.Context(), ownerID, &req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, rec)
}

// History lists the owner's records, newest first
// GET /content/history?limit=50&offset=0
func (h *ContentHandler) History(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	records, err := h.service.History(r.Context(), ownerID, limit, offset)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listResponse(records))
}

// Get retrieves a single record
// GET /content/{id}
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	id := r.PathValue("id")

	rec, err := h.service.Get(r.Context(), id, ownerID)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rec)
}

// Delete removes a record
// DELETE /content/{id}
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	id := r.PathValue("id")

	if err := h.service.Delete(r.Context(), id, ownerID); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
		"id":      id,
	})
}

// ToggleFavorite flips the favorite flag and returns the updated record
// PATCH /content/{id}/favorite
func (h *ContentHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	id := r.PathValue("id")

	rec, err := h.service.ToggleFavorite(r.Context(), id, ownerID)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rec)
}

// Search matches records against a keyword
// GET /content/search?q=keyword
func (h *ContentHandler) Search(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	keyword := r.URL.Query().Get("q")

	records, err := h.service.Search(r.Context(), ownerID, keyword)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listResponse(records))
}

// Favorites lists the owner's favorited records
// GET /content/favorites
func (h *ContentHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)

	records, err := h.service.Favorites(r.Context(), ownerID)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listResponse(records))
}

// Analytics returns the owner's usage summary
// GET /content/analytics
func (h *ContentHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)

	summary, err := h.service.Analytics(r.Context(), ownerID)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summary)
}

// Export renders a record in a downloadable format
// GET /content/{id}/export/{format}
func (h *ContentHandler) Export(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	id := r.PathValue("id")
	format := service.ExportFormat(strings.ToLower(r.PathValue("format")))

	rec, err := h.service.Get(r.Context(), id, ownerID)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	body, contentType, filename, err := service.Export(rec, format)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// listResponse wraps a record slice with its count. A nil slice still
// serializes as an empty array.
func listResponse(records []models.ContentRecord) map[string]interface{} {
	if records == nil {
		records = []models.ContentRecord{}
	}
	return map[string]interface{}{
		"items": records,
		"total": len(records),
	}
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &domain.ValidationError{Message: name + " must be a non-negative integer"}
	}
	return v, nil
}
