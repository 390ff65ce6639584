package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks aibox/internal/vectorstore VectorStore

import "context"

// Point is a vector attached to a stored chunk.
type Point struct {
	ID  string
	Vec []float32
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID    string
	DocumentID string
	Score      float32
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert attaches vectors to existing points, replacing any previous vector.
	Upsert(ctx context.Context, points []Point) error

	// Search returns the k points most similar to query, best first.
	Search(ctx context.Context, query []float32, k int) ([]SearchResult, error)

	// Delete removes the vectors of the given points. The points themselves stay.
	Delete(ctx context.Context, ids []string) error
}
