package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
)

const (
	// ChunkerVersion identifies the chunking algorithm.
	// Update this when chunk boundaries change.
	ChunkerVersion = "window-v1"
	// TokensPerRune is an approximation for token counting (4 chars per token).
	TokensPerRune = 4.0
)

// CoverageStats describes how much of the knowledge base can be searched.
type CoverageStats struct {
	// Documents is the number of stored documents.
	Documents int `json:"documents"`
	// EmptyDocuments is the number of documents without chunks.
	EmptyDocuments int `json:"empty_documents"`
	// Chunks is the number of stored chunks.
	Chunks int `json:"chunks"`
	// ChunksEmbedded is the number of chunks with a vector.
	ChunksEmbedded int `json:"chunks_embedded"`
	// ChunksMissingEmbedding is the number of chunks search cannot reach.
	ChunksMissingEmbedding int `json:"chunks_missing_embedding"`
	// ChunkTokenStats contains statistics about estimated token counts per chunk.
	ChunkTokenStats ChunkTokenStats `json:"chunk_token_stats"`
	// ChunkerVersion is the version of the chunker used.
	ChunkerVersion string `json:"chunker_version"`
	// IndexVersion is a hash of the chunker, embedding model and chunk parameters.
	IndexVersion string `json:"index_version"`
}

// ChunkTokenStats contains statistics about token counts in chunks.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// Stats computes coverage statistics from the stored chunks.
func (p *Pipeline) Stats(ctx context.Context) (*CoverageStats, error) {
	counts, err := p.chunks.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count chunks: %w", err)
	}
	lengths, err := p.chunks.ContentLengths(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chunk lengths: %w", err)
	}

	tokenCounts := make([]int, 0, len(lengths))
	for _, runes := range lengths {
		tokens := int(math.Round(float64(runes) / TokensPerRune))
		if tokens < 1 {
			tokens = 1
		}
		tokenCounts = append(tokenCounts, tokens)
	}

	return &CoverageStats{
		Documents:              counts.Documents,
		EmptyDocuments:         counts.EmptyDocuments,
		Chunks:                 counts.Chunks,
		ChunksEmbedded:         counts.Embedded,
		ChunksMissingEmbedding: counts.Chunks - counts.Embedded,
		ChunkTokenStats:        computeTokenStats(tokenCounts),
		ChunkerVersion:         ChunkerVersion,
		IndexVersion:           p.indexVersion(),
	}, nil
}

func (p *Pipeline) indexVersion() string {
	input := fmt.Sprintf("%s|%s|size=%d|overlap=%d",
		ChunkerVersion, p.opts.EmbeddingModel, p.opts.ChunkSize, p.opts.ChunkOverlap)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range sorted {
		sum += count
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	return ChunkTokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
