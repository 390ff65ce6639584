package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"aibox/internal/contextutil"
)

// EmbeddingBatchSize bounds the number of inputs sent per embeddings request.
const EmbeddingBatchSize = 20

// DefaultEmbeddingModel is used when no model is given.
const DefaultEmbeddingModel = "text-embedding-3-small"

// embeddingsRequest represents the request payload for embeddings API.
type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingsResponse represents the response from the embeddings API.
type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// EmbeddingsClient generates embeddings against an OpenAI-compatible API.
type EmbeddingsClient struct {
	client *Client
	// ExpectedSize, when positive, rejects vectors of any other dimension.
	ExpectedSize int
	// Retry is applied to each batch.
	Retry RetryPolicy
}

// NewEmbeddingsClient creates an embeddings client sharing client's transport.
func NewEmbeddingsClient(client *Client, retry RetryPolicy) *EmbeddingsClient {
	return &EmbeddingsClient{
		client: client,
		Retry:  retry,
	}
}

// GenerateEmbeddings returns one vector per text, in input order.
// Texts are sent in batches of EmbeddingBatchSize. The first failing batch
// stops the call; vectors for the batches that already completed are still
// returned alongside the error.
func (e *EmbeddingsClient) GenerateEmbeddings(ctx context.Context, cfg OpenAIConfig, texts []string, model string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultOpenAIBaseURL
	}
	url := strings.TrimRight(base, "/") + "/embeddings"
	header := map[string]string{headerAuthorization: bearer(cfg.APIKey)}

	logger := contextutil.LoggerFromContext(ctx)
	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += EmbeddingBatchSize {
		end := min(start+EmbeddingBatchSize, len(texts))
		batch := texts[start:end]

		var vectors [][]float32
		err := e.Retry.Do(ctx, func(ctx context.Context) error {
			var err error
			vectors, err = e.embedBatch(ctx, url, header, model, batch)
			return err
		})
		if err != nil {
			return result, fmt.Errorf("embedding batch %d-%d: %w", start, end, err)
		}

		logger.DebugContext(ctx, "embedded batch", "start", start, "count", len(batch))
		result = append(result, vectors...)
	}

	return result, nil
}

func (e *EmbeddingsClient) embedBatch(ctx context.Context, url string, header map[string]string, model string, batch []string) ([][]float32, error) {
	resp, err := sendJSON(ctx, e.client.httpClient, url, header, embeddingsRequest{Model: model, Input: batch})
	if err != nil {
		return nil, err
	}

	var out embeddingsResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	if len(out.Data) != len(batch) {
		return nil, &ParseError{Msg: fmt.Sprintf("expected %d embeddings, got %d", len(batch), len(out.Data))}
	}

	sort.SliceStable(out.Data, func(i, j int) bool {
		return out.Data[i].Index < out.Data[j].Index
	})

	vectors := make([][]float32, len(out.Data))
	for i, d := range out.Data {
		if e.ExpectedSize > 0 && len(d.Embedding) != e.ExpectedSize {
			return nil, &ParseError{Msg: fmt.Sprintf("embedding %d has size %d, expected %d", i, len(d.Embedding), e.ExpectedSize)}
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
