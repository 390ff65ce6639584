package llm

import (
	"context"
	"encoding/json"
	"strings"

	"aibox/internal/contextutil"
)

const (
	// DefaultClaudeBaseURL is used when no base URL is configured.
	DefaultClaudeBaseURL = "https://api.anthropic.com"

	claudeAPIVersion = "2023-06-01"
	claudeMaxTokens  = 4096

	headerClaudeKey     = "x-api-key"
	headerClaudeVersion = "anthropic-version"
)

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
	Stream    bool            `json:"stream"`
	System    *string         `json:"system,omitempty"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// claudeStreamEvent covers the fields read from Messages API stream events.
// Unknown event types decode fine and are ignored.
type claudeStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Text *string `json:"text"`
	} `json:"delta"`
}

type claudeDriver struct {
	endpoint string
	header   map[string]string
}

func newClaudeDriver(cfg ClaudeConfig) claudeDriver {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultClaudeBaseURL
	}
	return claudeDriver{
		endpoint: strings.TrimRight(base, "/") + "/v1/messages",
		header: map[string]string{
			headerClaudeKey:     cfg.APIKey,
			headerClaudeVersion: claudeAPIVersion,
		},
	}
}

// buildClaudeRequest moves the first system message into the top-level
// system field. Other system messages are dropped; the rest keep their order.
func buildClaudeRequest(req ChatRequest, stream bool) claudeRequest {
	system, hasSystem, rest := splitSystem(req.Messages)

	messages := make([]claudeMessage, 0, len(rest))
	for _, m := range rest {
		messages = append(messages, claudeMessage{Role: string(m.Role), Content: m.Content})
	}

	out := claudeRequest{
		Model:     req.Model,
		MaxTokens: claudeMaxTokens,
		Messages:  messages,
		Stream:    stream,
	}
	if hasSystem {
		out.System = &system
	}
	return out
}

func (d claudeDriver) chat(ctx context.Context, c *Client, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "sending claude request", "model", req.Model, "messages", len(req.Messages))

	resp, err := sendJSON(ctx, c.httpClient, d.endpoint, d.header, buildClaudeRequest(req, false))
	if err != nil {
		return ChatResponse{}, err
	}

	var out claudeResponse
	if err := decodeJSON(resp, &out); err != nil {
		return ChatResponse{}, err
	}

	var content strings.Builder
	for _, block := range out.Content {
		if block.Type == "" || block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	return ChatResponse{
		Content: content.String(),
		Model:   req.Model,
	}, nil
}

func (d claudeDriver) chatStream(ctx context.Context, c *Client, req ChatRequest, onChunk ChunkFunc) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "sending streaming claude request", "model", req.Model, "messages", len(req.Messages))

	header := map[string]string{headerAccept: mimeEventStream}
	for k, v := range d.header {
		header[k] = v
	}

	resp, err := sendJSON(ctx, c.httpClient, d.endpoint, header, buildClaudeRequest(req, true))
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return consumeStream(ctx, resp.Body, decodeClaudeFrame, onChunk)
}

func decodeClaudeFrame(payload string) (frameEvent, error) {
	var event claudeStreamEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return frameEvent{}, err
	}

	switch event.Type {
	case "content_block_delta":
		if event.Delta.Text != nil {
			return frameEvent{delta: *event.Delta.Text, hasDelta: true}, nil
		}
	case "message_stop":
		return frameEvent{done: true}, nil
	}
	return frameEvent{}, nil
}
