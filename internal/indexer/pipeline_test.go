package indexer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"aibox/internal/indexer/mocks"
	"aibox/internal/llm"
	"aibox/internal/storage"
	storage_mocks "aibox/internal/storage/mocks"
	"aibox/internal/vectorstore"

	"go.uber.org/mock/gomock"
)

var testEmbeddingConfig = llm.OpenAIConfig{APIKey: "sk-test", BaseURL: "http://embeddings.local/v1"}

type testPipeline struct {
	*Pipeline
	documents   *storage.DocumentRepo
	chunks      *storage.ChunkRepo
	embedder    *mocks.MockEmbedder
	credentials *mocks.MockEmbeddingConfigSource
}

func newTestPipeline(t *testing.T, ctrl *gomock.Controller) *testPipeline {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "kb.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}

	tp := &testPipeline{
		documents:   storage.NewDocumentRepo(db),
		chunks:      storage.NewChunkRepo(db),
		embedder:    mocks.NewMockEmbedder(ctrl),
		credentials: mocks.NewMockEmbeddingConfigSource(ctrl),
	}
	tp.Pipeline = NewPipeline(
		tp.documents,
		tp.chunks,
		tp.embedder,
		vectorstore.NewSQLiteStore(tp.chunks),
		tp.credentials,
		Options{EmbeddingModel: "test-model", ChunkSize: 40, ChunkOverlap: 10},
	)
	return tp
}

func vectorsFor(n int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = []float32{float32(i + 1), 1}
	}
	return out
}

func TestNewPipeline_DefaultModel(t *testing.T) {
	p := NewPipeline(nil, nil, nil, nil, nil, Options{ChunkSize: 10, ChunkOverlap: 2})
	if p.opts.EmbeddingModel != llm.DefaultEmbeddingModel {
		t.Errorf("EmbeddingModel = %q, want %q", p.opts.EmbeddingModel, llm.DefaultEmbeddingModel)
	}
}

func TestPipeline_Ingest(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	tp := newTestPipeline(t, ctrl)

	path := writeFile(t, t.TempDir(), "letters.txt", strings.Repeat("a", 100))

	tp.credentials.EXPECT().HasEmbeddingConfig(gomock.Any()).Return(true, nil)
	tp.credentials.EXPECT().EmbeddingConfig(gomock.Any()).Return(testEmbeddingConfig, nil)
	tp.embedder.EXPECT().
		GenerateEmbeddings(gomock.Any(), testEmbeddingConfig, gomock.Len(3), "test-model").
		Return(vectorsFor(3), nil)

	result, err := tp.Ingest(ctx, path)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if result.Chunks != 3 || result.Embedded != 3 || result.Warning != "" {
		t.Errorf("Ingest() = %+v", result)
	}
	if result.Document.Filename != "letters.txt" || result.Document.FileType != FileTypeText || result.Document.FileSize != 100 {
		t.Errorf("Document = %+v", result.Document)
	}

	chunks, err := tp.chunks.ListByDocument(ctx, result.Document.ID)
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("stored %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
		if c.Embedding == nil {
			t.Errorf("chunk %d has no embedding", i)
		}
	}
}

func TestPipeline_Ingest_PartialEmbeddings(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	tp := newTestPipeline(t, ctrl)

	path := writeFile(t, t.TempDir(), "letters.txt", strings.Repeat("b", 100))

	tp.credentials.EXPECT().HasEmbeddingConfig(gomock.Any()).Return(true, nil)
	tp.credentials.EXPECT().EmbeddingConfig(gomock.Any()).Return(testEmbeddingConfig, nil)
	tp.embedder.EXPECT().
		GenerateEmbeddings(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(vectorsFor(1), &llm.APIError{Status: 500, Body: "boom"})

	result, err := tp.Ingest(ctx, path)
	if err != nil {
		t.Fatalf("Ingest() error = %v, embedding failures must not fail ingestion", err)
	}
	if result.Embedded != 1 || result.Chunks != 3 {
		t.Errorf("Ingest() = %+v, want 1 of 3 embedded", result)
	}
	if !strings.Contains(result.Warning, "boom") {
		t.Errorf("Warning = %q, want it to mention the failure", result.Warning)
	}

	embeddings, err := tp.chunks.ListEmbeddings(ctx)
	if err != nil {
		t.Fatalf("ListEmbeddings() error = %v", err)
	}
	if len(embeddings) != 1 {
		t.Errorf("stored %d embeddings, want 1", len(embeddings))
	}
	docs, err := tp.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("ListDocuments() returned %d documents, want 1", len(docs))
	}
}

func TestPipeline_Ingest_NoCredentials(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	tp := newTestPipeline(t, ctrl)

	path := writeFile(t, t.TempDir(), "hello.md", "# Hello\n\nworld")
	tp.credentials.EXPECT().HasEmbeddingConfig(gomock.Any()).Return(false, nil)

	result, err := tp.Ingest(ctx, path)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if result.Chunks != 1 || result.Embedded != 0 || result.Warning != "" {
		t.Errorf("Ingest() = %+v", result)
	}
}

func TestPipeline_Ingest_Rejects(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{name: "empty document", path: writeFile(t, dir, "empty.txt", "   \n ")},
		{name: "markup only", path: writeFile(t, dir, "empty.md", "<div></div>\n")},
		{name: "unsupported type", path: writeFile(t, dir, "image.png", "png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ctrl := gomock.NewController(t)
			tp := newTestPipeline(t, ctrl)

			_, err := tp.Ingest(ctx, tt.path)
			var inputErr *UnsupportedInputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("Ingest() error = %v, want UnsupportedInputError", err)
			}

			docs, err := tp.ListDocuments(ctx)
			if err != nil {
				t.Fatalf("ListDocuments() error = %v", err)
			}
			if len(docs) != 0 {
				t.Errorf("rejected input stored %d documents", len(docs))
			}
		})
	}
}

func TestPipeline_Ingest_ChunkInsertFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	documents := storage_mocks.NewMockDocumentStore(ctrl)
	chunks := storage_mocks.NewMockChunkStore(ctrl)
	p := NewPipeline(documents, chunks, nil, nil, nil, Options{ChunkSize: 40, ChunkOverlap: 10})

	path := writeFile(t, t.TempDir(), "doc.txt", "some content")

	documents.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, doc *storage.Document) error {
		doc.ID = "doc-1"
		return nil
	})
	chunks.EXPECT().InsertBatch(gomock.Any(), gomock.Len(1)).Return(errors.New("disk full"))
	documents.EXPECT().Delete(gomock.Any(), "doc-1").Return(nil)

	if _, err := p.Ingest(ctx, path); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Ingest() error = %v, want chunk insert failure", err)
	}
}

func TestPipeline_DeleteDocument(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	tp := newTestPipeline(t, ctrl)

	path := writeFile(t, t.TempDir(), "letters.txt", strings.Repeat("c", 100))
	tp.credentials.EXPECT().HasEmbeddingConfig(gomock.Any()).Return(false, nil)
	result, err := tp.Ingest(ctx, path)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if err := tp.DeleteDocument(ctx, result.Document.ID); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	chunks, err := tp.chunks.ListByDocument(ctx, result.Document.ID)
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("%d chunks survived document deletion", len(chunks))
	}
	if err := tp.DeleteDocument(ctx, result.Document.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteDocument() error = %v, want ErrNotFound", err)
	}
}
