package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"aibox/internal/service"
)

// SettingsHandler serves runtime settings.
type SettingsHandler struct {
	settings service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// SetSettingRequest is the body of PUT /api/settings/{key}.
type SetSettingRequest struct {
	Value string `json:"value"`
}

// List returns every stored setting with API keys masked.
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.settings.All(r.Context())
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to read settings")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, all)
}

// Set stores one setting.
func (h *SettingsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetSettingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.settings.Set(r.Context(), chi.URLParam(r, "key"), req.Value); err != nil {
		handleServiceError(r.Context(), w, err, "Failed to save setting")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes one setting.
func (h *SettingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		handleServiceError(r.Context(), w, err, "Failed to delete setting")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
