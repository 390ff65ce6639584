package llm

import (
	"context"
	"encoding/json"
	"strings"

	"aibox/internal/contextutil"
)

// DefaultOpenAIBaseURL is used when no base URL is configured.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// openAIRequest is the chat completions request body.
type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
}

// openAIStreamResponse is one streamed chunk. Content and FinishReason are
// pointers so an absent field can be told apart from an empty one.
type openAIStreamResponse struct {
	Choices []struct {
		Delta struct {
			Content *string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// openAICompatible speaks the chat completions protocol. It serves OpenAI,
// Ollama and Copilot, which differ only in endpoint and headers.
type openAICompatible struct {
	endpoint string
	header   map[string]string
}

func newOpenAIDriver(cfg OpenAIConfig) openAICompatible {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultOpenAIBaseURL
	}
	return openAICompatible{
		endpoint: strings.TrimRight(base, "/") + "/chat/completions",
		header:   map[string]string{headerAuthorization: bearer(cfg.APIKey)},
	}
}

func buildOpenAIRequest(req ChatRequest, stream bool) openAIRequest {
	messages := make([]openAIMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openAIMessage{Role: string(m.Role), Content: m.Content})
	}
	return openAIRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   stream,
	}
}

func (d openAICompatible) chat(ctx context.Context, c *Client, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "sending chat request", "endpoint", d.endpoint, "model", req.Model, "messages", len(req.Messages))

	resp, err := sendJSON(ctx, c.httpClient, d.endpoint, d.header, buildOpenAIRequest(req, false))
	if err != nil {
		return ChatResponse{}, err
	}

	var out openAIResponse
	if err := decodeJSON(resp, &out); err != nil {
		return ChatResponse{}, err
	}
	if len(out.Choices) == 0 {
		return ChatResponse{}, &ParseError{Msg: "no choices returned"}
	}

	return ChatResponse{
		Content: out.Choices[0].Message.Content,
		Model:   req.Model,
	}, nil
}

func (d openAICompatible) chatStream(ctx context.Context, c *Client, req ChatRequest, onChunk ChunkFunc) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "sending streaming chat request", "endpoint", d.endpoint, "model", req.Model, "messages", len(req.Messages))

	header := make(map[string]string, len(d.header)+1)
	for k, v := range d.header {
		header[k] = v
	}
	header[headerAccept] = mimeEventStream

	resp, err := sendJSON(ctx, c.httpClient, d.endpoint, header, buildOpenAIRequest(req, true))
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return consumeStream(ctx, resp.Body, decodeOpenAIFrame, onChunk)
}

// decodeOpenAIFrame handles "[DONE]" and chat.completion.chunk payloads.
// A frame carrying both content and a finish reason yields the content first
// and then terminates.
func decodeOpenAIFrame(payload string) (frameEvent, error) {
	if payload == streamDoneID {
		return frameEvent{done: true}, nil
	}

	var chunk openAIStreamResponse
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return frameEvent{}, err
	}
	if len(chunk.Choices) == 0 {
		return frameEvent{}, nil
	}

	choice := chunk.Choices[0]
	var ev frameEvent
	if choice.Delta.Content != nil {
		ev.delta = *choice.Delta.Content
		ev.hasDelta = true
	}
	ev.done = choice.FinishReason != nil
	return ev, nil
}
