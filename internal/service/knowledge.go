package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_ingester.go -package=mocks aibox/internal/service DocumentIngester
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_knowledge_service.go -package=mocks -mock_names=KnowledgeService=MockKnowledgeService aibox/internal/service KnowledgeService

import (
	"context"
	"errors"
	"strings"

	"aibox/internal/contextutil"
	"aibox/internal/indexer"
	"aibox/internal/rag"
	"aibox/internal/storage"
)

// DocumentIngester stores documents in the knowledge base.
type DocumentIngester interface {
	Ingest(ctx context.Context, path string) (*indexer.IngestResult, error)
	ListDocuments(ctx context.Context) ([]storage.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	Stats(ctx context.Context) (*indexer.CoverageStats, error)
}

// KnowledgeService manages the knowledge base.
type KnowledgeService interface {
	// Ingest parses, chunks, stores and embeds the file at path.
	Ingest(ctx context.Context, path string) (*indexer.IngestResult, error)
	// ListDocuments returns documents, newest first.
	ListDocuments(ctx context.Context) ([]storage.Document, error)
	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error
	// Search ranks knowledge base chunks against query.
	Search(ctx context.Context, query string, topK int) ([]rag.SearchResult, error)
	// Stats reports knowledge base coverage.
	Stats(ctx context.Context) (*indexer.CoverageStats, error)
}

// knowledgeService implements KnowledgeService.
type knowledgeService struct {
	ingester DocumentIngester
	searcher KnowledgeSearcher
}

// NewKnowledgeService creates a new KnowledgeService.
func NewKnowledgeService(ingester DocumentIngester, searcher KnowledgeSearcher) KnowledgeService {
	return &knowledgeService{
		ingester: ingester,
		searcher: searcher,
	}
}

// Ingest adds a file to the knowledge base.
func (s *knowledgeService) Ingest(ctx context.Context, path string) (*indexer.IngestResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &ValidationError{Field: "path", Message: "cannot be empty"}
	}

	result, err := s.ingester.Ingest(ctx, path)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "document ingestion failed", "path", path, "error", err)
		return nil, WrapError(err, "failed to ingest document")
	}
	return result, nil
}

// ListDocuments returns documents, newest first.
func (s *knowledgeService) ListDocuments(ctx context.Context) ([]storage.Document, error) {
	docs, err := s.ingester.ListDocuments(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list documents")
	}
	return docs, nil
}

// DeleteDocument removes a document and its chunks.
func (s *knowledgeService) DeleteDocument(ctx context.Context, id string) error {
	if err := s.ingester.DeleteDocument(ctx, id); err != nil {
		return mapStorageError(err, "document", id)
	}
	return nil
}

// Search ranks knowledge base chunks against query.
func (s *knowledgeService) Search(ctx context.Context, query string, topK int) ([]rag.SearchResult, error) {
	if topK < 0 {
		return nil, &ValidationError{Field: "top_k", Message: "cannot be negative"}
	}
	results, err := s.searcher.Search(ctx, query, topK)
	if errors.Is(err, rag.ErrEmptyQuery) {
		return nil, &ValidationError{Field: "query", Message: "cannot be empty"}
	}
	if err != nil {
		return nil, WrapError(err, "knowledge search failed")
	}
	return results, nil
}

// Stats reports knowledge base coverage.
func (s *knowledgeService) Stats(ctx context.Context) (*indexer.CoverageStats, error) {
	stats, err := s.ingester.Stats(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to compute knowledge base stats")
	}
	return stats, nil
}
