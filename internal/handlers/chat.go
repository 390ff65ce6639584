package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aibox/internal/contextutil"
	"aibox/internal/service"
	"aibox/internal/storage"
)

// ChatHandler handles HTTP requests for conversations and chat turns.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RenameRequest is the body of PATCH /api/conversations/{id}.
type RenameRequest struct {
	Title string `json:"title"`
}

// SendMessageRequest is the body of POST /api/conversations/{id}/messages.
type SendMessageRequest struct {
	Content      string `json:"content"`
	Model        string `json:"model,omitempty"`
	UseKnowledge bool   `json:"use_knowledge,omitempty"`
}

// MessageEvent is the final event of a streamed reply.
type MessageEvent struct {
	Message *storage.Message `json:"message"`
}

// ListConversations returns conversations, most recently updated first.
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.chatService.ListConversations(r.Context())
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to list conversations")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, convs)
}

// CreateConversation creates a conversation.
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req service.CreateConversationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	conv, err := h.chatService.CreateConversation(r.Context(), req)
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to create conversation")
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, conv)
}

// RenameConversation changes a conversation title.
func (h *ChatHandler) RenameConversation(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.chatService.RenameConversation(r.Context(), chi.URLParam(r, "id"), req.Title); err != nil {
		handleServiceError(r.Context(), w, err, "Failed to rename conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteConversation removes a conversation and its messages.
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := h.chatService.DeleteConversation(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(r.Context(), w, err, "Failed to delete conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMessages returns the messages of a conversation in order.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chatService.ListMessages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to list messages")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, msgs)
}

// SendMessage runs a chat turn and streams the reply as Server-Sent Events.
// Errors raised before the first chunk get a regular JSON error response;
// later ones are sent as an error event.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}
	sse := &sseWriter{w: w, flusher: flusher}

	msg, err := h.chatService.SendMessage(ctx, service.SendMessageRequest{
		ConversationID: chi.URLParam(r, "id"),
		Content:        req.Content,
		Model:          req.Model,
		UseKnowledge:   req.UseKnowledge,
	}, func(chunk service.ChatChunk) error {
		return sse.send(chunk)
	})

	if err != nil {
		if !sse.started {
			handleServiceError(ctx, w, err, "Failed to send message")
			return
		}
		logger.ErrorContext(ctx, "error streaming chat", "error", err)
		_, errMsg := statusFor(err, "Failed to send message")
		_ = sse.send(ErrorResponse{Error: errMsg})
		return
	}

	if err := sse.send(MessageEvent{Message: msg}); err != nil {
		logger.WarnContext(ctx, "failed to write final event", "error", err)
	}
}

// sseWriter writes JSON "data:" events, sending the stream headers with the first one.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func (s *sseWriter) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if !s.started {
		s.w.Header().Set("Content-Type", "text/event-stream")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.Header().Set("Connection", "keep-alive")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
