package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks aibox/internal/rag Engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"aibox/internal/contextutil"
	"aibox/internal/llm"
	"aibox/internal/storage"
	"aibox/internal/vectorstore"
)

const (
	// DefaultTopK is used when a search does not ask for a result count.
	DefaultTopK = 5
	// DefaultQueryCacheTTL bounds how long a query embedding is reused.
	DefaultQueryCacheTTL = 30 * time.Minute
)

// Engine searches the knowledge base.
type Engine interface {
	// Search returns up to topK chunks ranked by similarity to query.
	// A topK of zero or less uses the engine default.
	Search(ctx context.Context, query string, topK int) ([]SearchResult, error)
}

// QueryEmbedder generates vectors for search queries.
type QueryEmbedder interface {
	GenerateEmbeddings(ctx context.Context, cfg llm.OpenAIConfig, texts []string, model string) ([][]float32, error)
}

// CredentialSource returns the credentials used to embed queries.
type CredentialSource interface {
	EmbeddingConfig(ctx context.Context) (llm.OpenAIConfig, error)
}

// Options configures an Engine.
type Options struct {
	EmbeddingModel string
	TopK           int
	// CacheSize is the number of query embeddings kept; zero disables the cache.
	CacheSize int
	CacheTTL  time.Duration
}

type ragEngine struct {
	embedder    QueryEmbedder
	credentials CredentialSource
	vectorStore vectorstore.VectorStore
	chunkRepo   storage.ChunkStore
	cache       *expirable.LRU[string, []float32]
	opts        Options
}

// NewEngine creates a new knowledge base search engine.
func NewEngine(
	embedder QueryEmbedder,
	credentials CredentialSource,
	vectorStore vectorstore.VectorStore,
	chunkRepo storage.ChunkStore,
	opts Options,
) Engine {
	if opts.EmbeddingModel == "" {
		opts.EmbeddingModel = llm.DefaultEmbeddingModel
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultQueryCacheTTL
	}

	e := &ragEngine{
		embedder:    embedder,
		credentials: credentials,
		vectorStore: vectorStore,
		chunkRepo:   chunkRepo,
		opts:        opts,
	}
	if opts.CacheSize > 0 {
		e.cache = expirable.NewLRU[string, []float32](opts.CacheSize, nil, opts.CacheTTL)
	}
	return e
}

// Search embeds the query, ranks every embedded chunk against it and
// returns the best topK with their text.
func (e *ragEngine) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = e.opts.TopK
	}

	cfg, err := e.credentials.EmbeddingConfig(ctx)
	if err != nil {
		return nil, err
	}

	queryVector, err := e.embedQuery(ctx, cfg, query)
	if err != nil {
		return nil, err
	}

	hits, err := e.vectorStore.Search(ctx, queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}
	logger.DebugContext(ctx, "vector search completed", "results_count", len(hits), "k_requested", topK)
	if len(hits) == 0 {
		return []SearchResult{}, nil
	}

	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.PointID
	}
	chunks, err := e.chunkRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chunks: %w", err)
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		chunk, ok := chunks[hit.PointID]
		if !ok {
			logger.WarnContext(ctx, "search hit has no chunk", "chunk_id", hit.PointID)
			continue
		}
		results = append(results, SearchResult{
			ID:         chunk.ID,
			DocumentID: chunk.DocumentID,
			Content:    chunk.Content,
			ChunkIndex: chunk.ChunkIndex,
			Score:      hit.Score,
		})
	}

	logger.InfoContext(ctx, "knowledge search completed", "query_length", len(query), "results", len(results))
	return results, nil
}

func (e *ragEngine) embedQuery(ctx context.Context, cfg llm.OpenAIConfig, query string) ([]float32, error) {
	key := cfg.BaseURL + "\x00" + e.opts.EmbeddingModel + "\x00" + query
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			contextutil.LoggerFromContext(ctx).DebugContext(ctx, "query embedding cache hit")
			return cloneVector(cached), nil
		}
	}

	vectors, err := e.embedder.GenerateEmbeddings(ctx, cfg, []string{query}, e.opts.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, &llm.ParseError{Msg: fmt.Sprintf("expected one query embedding, got %d", len(vectors))}
	}

	if e.cache != nil {
		e.cache.Add(key, cloneVector(vectors[0]))
	}
	return vectors[0], nil
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
