package vectorstore

import (
	"context"
	"fmt"

	"aibox/internal/contextutil"
	"aibox/internal/storage"
)

// EmbeddingStore is the subset of chunk storage the vector store needs.
type EmbeddingStore interface {
	SetEmbedding(ctx context.Context, id string, embedding []byte) error
	ListEmbeddings(ctx context.Context) ([]storage.ChunkEmbedding, error)
}

// SQLiteStore keeps vectors in the chunks table and searches them with a
// full linear scan per query.
type SQLiteStore struct {
	chunks EmbeddingStore
}

// NewSQLiteStore creates a vector store over chunk rows.
func NewSQLiteStore(chunks EmbeddingStore) *SQLiteStore {
	return &SQLiteStore{chunks: chunks}
}

// Upsert stores each point's vector on its chunk row. Points written before
// a failure keep their vectors.
func (s *SQLiteStore) Upsert(ctx context.Context, points []Point) error {
	for _, p := range points {
		if err := s.chunks.SetEmbedding(ctx, p.ID, EncodeVector(p.Vec)); err != nil {
			return fmt.Errorf("failed to store vector for %s: %w", p.ID, err)
		}
	}
	return nil
}

// Search ranks every stored vector against query by cosine similarity.
// Vectors that fail to decode are skipped.
func (s *SQLiteStore) Search(ctx context.Context, query []float32, k int) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	rows, err := s.chunks.ListEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load embeddings: %w", err)
	}

	candidates := make([]Candidate, 0, len(rows))
	documents := make(map[string]string, len(rows))
	for _, row := range rows {
		vec, err := DecodeVector(row.Embedding)
		if err != nil {
			logger.WarnContext(ctx, "skipping corrupt embedding", "chunk_id", row.ChunkID, "error", err)
			continue
		}
		if len(vec) != len(query) {
			logger.DebugContext(ctx, "embedding dimension mismatch", "chunk_id", row.ChunkID, "got", len(vec), "want", len(query))
		}
		candidates = append(candidates, Candidate{ID: row.ChunkID, Vector: vec})
		documents[row.ChunkID] = row.DocumentID
	}

	ranked := SearchSimilar(query, candidates, k)
	results := make([]SearchResult, len(ranked))
	for i, r := range ranked {
		results[i] = SearchResult{
			PointID:    r.ID,
			DocumentID: documents[r.ID],
			Score:      r.Score,
		}
	}

	logger.DebugContext(ctx, "vector search completed", "candidates", len(candidates), "results", len(results))
	return results, nil
}

// Delete clears the vectors of the given chunks.
func (s *SQLiteStore) Delete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := s.chunks.SetEmbedding(ctx, id, nil); err != nil {
			return fmt.Errorf("failed to clear vector for %s: %w", id, err)
		}
	}
	return nil
}
