package indexer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"aibox/internal/storage"
	storage_mocks "aibox/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

func TestPipeline_Stats(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	tp := newTestPipeline(t, ctrl)

	stats, err := tp.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Documents != 0 || stats.Chunks != 0 || stats.ChunksEmbedded != 0 {
		t.Errorf("Stats() on empty knowledge base = %+v", stats)
	}
	if stats.ChunkerVersion != ChunkerVersion {
		t.Errorf("ChunkerVersion = %s, want %s", stats.ChunkerVersion, ChunkerVersion)
	}
	if len(stats.IndexVersion) != 16 {
		t.Errorf("IndexVersion = %q, want 16 hex chars", stats.IndexVersion)
	}

	tp.credentials.EXPECT().HasEmbeddingConfig(gomock.Any()).Return(true, nil)
	tp.credentials.EXPECT().EmbeddingConfig(gomock.Any()).Return(testEmbeddingConfig, nil)
	tp.embedder.EXPECT().
		GenerateEmbeddings(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(vectorsFor(2), errors.New("rate limited"))

	path := writeFile(t, t.TempDir(), "letters.txt", strings.Repeat("a", 100))
	if _, err := tp.Ingest(ctx, path); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	stats, err = tp.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Documents != 1 || stats.EmptyDocuments != 0 {
		t.Errorf("document counts = %d/%d, want 1/0", stats.Documents, stats.EmptyDocuments)
	}
	if stats.Chunks != 3 || stats.ChunksEmbedded != 2 || stats.ChunksMissingEmbedding != 1 {
		t.Errorf("chunk counts = %+v", stats)
	}
	// Three 40-character windows.
	want := ChunkTokenStats{Min: 10, Max: 10, Mean: 10, P95: 10}
	if stats.ChunkTokenStats != want {
		t.Errorf("ChunkTokenStats = %+v, want %+v", stats.ChunkTokenStats, want)
	}
}

func TestPipeline_IndexVersion(t *testing.T) {
	a := NewPipeline(nil, nil, nil, nil, nil, Options{EmbeddingModel: "m1", ChunkSize: 512, ChunkOverlap: 64})
	b := NewPipeline(nil, nil, nil, nil, nil, Options{EmbeddingModel: "m1", ChunkSize: 512, ChunkOverlap: 64})
	c := NewPipeline(nil, nil, nil, nil, nil, Options{EmbeddingModel: "m1", ChunkSize: 256, ChunkOverlap: 64})
	d := NewPipeline(nil, nil, nil, nil, nil, Options{EmbeddingModel: "m2", ChunkSize: 512, ChunkOverlap: 64})

	if a.indexVersion() != b.indexVersion() {
		t.Error("indexVersion() should be stable for identical options")
	}
	if a.indexVersion() == c.indexVersion() {
		t.Error("indexVersion() should change with chunk size")
	}
	if a.indexVersion() == d.indexVersion() {
		t.Error("indexVersion() should change with embedding model")
	}
}

func TestComputeTokenStats(t *testing.T) {
	tests := []struct {
		name        string
		tokenCounts []int
		want        ChunkTokenStats
	}{
		{
			name:        "empty",
			tokenCounts: []int{},
			want:        ChunkTokenStats{},
		},
		{
			name:        "single value",
			tokenCounts: []int{10},
			want:        ChunkTokenStats{Min: 10, Max: 10, Mean: 10.0, P95: 10},
		},
		{
			name:        "unsorted values",
			tokenCounts: []int{30, 5, 20, 10, 15},
			want:        ChunkTokenStats{Min: 5, Max: 30, Mean: 16.0, P95: 30},
		},
		{
			name:        "many values for p95",
			tokenCounts: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
			want:        ChunkTokenStats{Min: 1, Max: 20, Mean: 10.5, P95: 20},
		},
		{
			name:        "rounds mean",
			tokenCounts: []int{1, 1, 2},
			want:        ChunkTokenStats{Min: 1, Max: 2, Mean: 1.33, P95: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeTokenStats(tt.tokenCounts)
			if got != tt.want {
				t.Errorf("computeTokenStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPipeline_Stats_ErrorHandling(t *testing.T) {
	ctrl := gomock.NewController(t)
	chunks := storage_mocks.NewMockChunkStore(ctrl)
	p := NewPipeline(nil, chunks, nil, nil, nil, Options{ChunkSize: 10, ChunkOverlap: 2})

	chunks.EXPECT().Counts(gomock.Any()).Return(storage.IndexCounts{}, errors.New("db closed"))

	if _, err := p.Stats(context.Background()); err == nil {
		t.Fatal("Stats() expected error when counting fails")
	}
}
