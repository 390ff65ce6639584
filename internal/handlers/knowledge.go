package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"aibox/internal/service"
)

// KnowledgeHandler serves the knowledge base: documents, search and stats.
type KnowledgeHandler struct {
	knowledge service.KnowledgeService
}

// NewKnowledgeHandler creates a new KnowledgeHandler.
func NewKnowledgeHandler(knowledge service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledge: knowledge}
}

// IngestRequest is the body of POST /api/documents.
type IngestRequest struct {
	Path string `json:"path"`
}

// SearchRequest is the body of POST /api/knowledge/search.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// ListDocuments returns the ingested documents, newest first.
func (h *KnowledgeHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.knowledge.ListDocuments(r.Context())
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to list documents")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, docs)
}

// Ingest adds a local file to the knowledge base.
func (h *KnowledgeHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.knowledge.Ingest(r.Context(), req.Path)
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to ingest document")
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, result)
}

// DeleteDocument removes a document and its chunks.
func (h *KnowledgeHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.knowledge.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(r.Context(), w, err, "Failed to delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search ranks knowledge base chunks against a query.
func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	results, err := h.knowledge.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to search knowledge base")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, results)
}

// Stats reports knowledge base coverage.
func (h *KnowledgeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.knowledge.Stats(r.Context())
	if err != nil {
		handleServiceError(r.Context(), w, err, "Failed to compute knowledge base stats")
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, stats)
}
