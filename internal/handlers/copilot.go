package handlers

import (
	"net/http"

	"aibox/internal/service"
)

// CopilotHandler drives the GitHub Copilot device login.
type CopilotHandler struct {
	copilot service.CopilotService
}

// NewCopilotHandler creates a new CopilotHandler.
func NewCopilotHandler(copilot service.CopilotService) *CopilotHandler {
	return &CopilotHandler{copilot: copilot}
}

// PollLoginRequest is the body of POST /api/copilot/login/poll.
type PollLoginRequest struct {
	DeviceCode string `json:"device_code"`
}

// LoginStatusResponse reports whether a Copilot token is stored.
type LoginStatusResponse struct {
	LoggedIn bool `json:"logged_in"`
}

// StartLogin returns the device and user codes for a new login.
func (h *CopilotHandler) StartLogin(w http.ResponseWriter, r *http.Request) {
	code, err := h.copilot.StartLogin(r.Context())
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to start login")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, code)
}

// PollLogin checks a pending device login once.
func (h *CopilotHandler) PollLogin(w http.ResponseWriter, r *http.Request) {
	var req PollLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ok, err := h.copilot.PollLogin(r.Context(), req.DeviceCode)
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to poll login")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, LoginStatusResponse{LoggedIn: ok})
}

// Status reports whether the user is logged in.
func (h *CopilotHandler) Status(w http.ResponseWriter, r *http.Request) {
	ok, err := h.copilot.IsLoggedIn(r.Context())
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to read login status")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, LoginStatusResponse{LoggedIn: ok})
}

// Logout forgets the stored token.
func (h *CopilotHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.copilot.Logout(r.Context()); err != nil {
		handleServiceError(r.Context(), w, err, "Failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
