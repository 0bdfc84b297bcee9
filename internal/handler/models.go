package handler

import (
	"net/http"

	"ideaforge/internal/httputil"
	"ideaforge/internal/registry"
)

// ModelsHandler serves the model catalog
type ModelsHandler struct {
	registry *registry.Registry
}

func NewModelsHandler(reg *registry.Registry) *ModelsHandler {
	return &ModelsHandler{registry: reg}
}

// ListModels returns every selectable model and which one is the default
// GET /content/models
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	models := h.registry.List()
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"models":  models,
		"default": h.registry.Default().ID,
	})
}
