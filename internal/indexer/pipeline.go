package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks aibox/internal/indexer Embedder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedding_config_source.go -package=mocks aibox/internal/indexer EmbeddingConfigSource

import (
	"context"
	"fmt"

	"aibox/internal/contextutil"
	"aibox/internal/llm"
	"aibox/internal/storage"
	"aibox/internal/vectorstore"
)

// Embedder generates vectors for chunk texts.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, cfg llm.OpenAIConfig, texts []string, model string) ([][]float32, error)
}

// EmbeddingConfigSource reports the credentials used for embeddings.
type EmbeddingConfigSource interface {
	HasEmbeddingConfig(ctx context.Context) (bool, error)
	EmbeddingConfig(ctx context.Context) (llm.OpenAIConfig, error)
}

// Options controls chunking and embedding during ingestion.
type Options struct {
	EmbeddingModel string
	ChunkSize      int
	ChunkOverlap   int
}

// IngestResult describes a stored document.
type IngestResult struct {
	Document storage.Document `json:"document"`
	Chunks   int              `json:"chunks"`
	Embedded int              `json:"embedded"`
	// Warning is set when the document was stored without all of its vectors.
	Warning string `json:"warning,omitempty"`
}

// Pipeline ingests files into the knowledge base: parse, chunk, store, embed.
type Pipeline struct {
	documents   storage.DocumentStore
	chunks      storage.ChunkStore
	embedder    Embedder
	vectors     vectorstore.VectorStore
	credentials EmbeddingConfigSource
	opts        Options
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentStore,
	chunks storage.ChunkStore,
	embedder Embedder,
	vectors vectorstore.VectorStore,
	credentials EmbeddingConfigSource,
	opts Options,
) *Pipeline {
	if opts.EmbeddingModel == "" {
		opts.EmbeddingModel = llm.DefaultEmbeddingModel
	}
	return &Pipeline{
		documents:   documents,
		chunks:      chunks,
		embedder:    embedder,
		vectors:     vectors,
		credentials: credentials,
		opts:        opts,
	}
}

// Ingest stores the file at path and its chunks. Embedding failures do not
// fail the call; they are logged and reported in IngestResult.Warning.
func (p *Pipeline) Ingest(ctx context.Context, path string) (*IngestResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	parsed, err := ParseFile(path)
	if err != nil {
		return nil, err
	}

	pieces, err := ChunkText(parsed.Content, p.opts.ChunkSize, p.opts.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	if len(pieces) == 0 {
		return nil, &UnsupportedInputError{Msg: "document is empty or could not be parsed"}
	}

	doc := &storage.Document{
		Filename: parsed.Filename,
		FileType: parsed.FileType,
		FilePath: parsed.Path,
		FileSize: parsed.Size,
	}
	if err := p.documents.Insert(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	chunks := make([]*storage.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = &storage.Chunk{
			DocumentID: doc.ID,
			Content:    piece,
			ChunkIndex: i,
		}
	}
	if err := p.chunks.InsertBatch(ctx, chunks); err != nil {
		if delErr := p.documents.Delete(ctx, doc.ID); delErr != nil {
			logger.ErrorContext(ctx, "failed to remove document after chunk insert failure", "document_id", doc.ID, "error", delErr)
		}
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	logger.InfoContext(ctx, "document stored",
		"document_id", doc.ID,
		"filename", doc.Filename,
		"chunks", len(chunks),
	)

	result := &IngestResult{Document: *doc, Chunks: len(chunks)}

	embedded, err := p.embed(ctx, chunks)
	result.Embedded = embedded
	if err != nil {
		logger.WarnContext(ctx, "document stored without all embeddings",
			"document_id", doc.ID,
			"embedded", embedded,
			"chunks", len(chunks),
			"error", err,
		)
		result.Warning = fmt.Sprintf("embeddings incomplete (%d/%d): %v", embedded, len(chunks), err)
	}
	return result, nil
}

// embed attaches vectors to chunks and returns how many were stored.
// It does nothing when no embedding credentials are configured.
func (p *Pipeline) embed(ctx context.Context, chunks []*storage.Chunk) (int, error) {
	ok, err := p.credentials.HasEmbeddingConfig(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "embeddings skipped, no credentials configured")
		return 0, nil
	}
	cfg, err := p.credentials.EmbeddingConfig(ctx)
	if err != nil {
		return 0, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, genErr := p.embedder.GenerateEmbeddings(ctx, cfg, texts, p.opts.EmbeddingModel)
	if len(vectors) > len(chunks) {
		vectors = vectors[:len(chunks)]
	}
	if len(vectors) > 0 {
		points := make([]vectorstore.Point, len(vectors))
		for i, vec := range vectors {
			points[i] = vectorstore.Point{ID: chunks[i].ID, Vec: vec}
		}
		if err := p.vectors.Upsert(ctx, points); err != nil {
			return 0, fmt.Errorf("failed to store embeddings: %w", err)
		}
	}
	return len(vectors), genErr
}

// ListDocuments returns every stored document, newest first.
func (p *Pipeline) ListDocuments(ctx context.Context) ([]storage.Document, error) {
	return p.documents.List(ctx)
}

// DeleteDocument removes a document together with its chunks and vectors.
func (p *Pipeline) DeleteDocument(ctx context.Context, id string) error {
	if err := p.documents.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "document deleted", "document_id", id)
	return nil
}
