package rag

import "errors"

// ErrEmptyQuery is returned when a search query has no content.
var ErrEmptyQuery = errors.New("query must not be empty")

// SearchResult is a knowledge base chunk ranked against a query.
type SearchResult struct {
	// ID is the chunk ID.
	ID string `json:"id"`
	// DocumentID is the document the chunk belongs to.
	DocumentID string `json:"document_id"`
	// Content is the chunk text.
	Content string `json:"content"`
	// ChunkIndex is the position of the chunk within its document.
	ChunkIndex int `json:"chunk_index"`
	// Score is the cosine similarity to the query, in [-1, 1].
	Score float32 `json:"score"`
}
