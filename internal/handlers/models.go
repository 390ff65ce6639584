package handlers

import (
	"net/http"

	"aibox/internal/service"
)

// ModelsHandler lists the models available for chat.
type ModelsHandler struct {
	models service.ModelService
}

// NewModelsHandler creates a new ModelsHandler.
func NewModelsHandler(models service.ModelService) *ModelsHandler {
	return &ModelsHandler{models: models}
}

// List returns the catalog models of every configured provider.
func (h *ModelsHandler) List(w http.ResponseWriter, r *http.Request) {
	models, err := h.models.ListModels(r.Context())
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to list models")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, models)
}

// ListCopilot fetches the models of the logged in Copilot account.
func (h *ModelsHandler) ListCopilot(w http.ResponseWriter, r *http.Request) {
	models, err := h.models.ListCopilotModels(r.Context())
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to list Copilot models")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, models)
}
