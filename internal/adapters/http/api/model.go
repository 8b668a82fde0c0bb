package api

import (
	"net/http"
)

// ModelHandler serves metadata about the loaded model artifact.
type ModelHandler struct {
	deps Dependencies
}

// NewModelHandler creates a new model metadata handler.
func NewModelHandler(deps Dependencies) *ModelHandler {
	return &ModelHandler{deps: deps}
}

// HandleModel handles GET /model requests.
func (h *ModelHandler) HandleModel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ModelInfo())
}
