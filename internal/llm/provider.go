package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ProviderConfig selects a backend and carries its credentials for one request.
// The set of variants is closed: OpenAIConfig, ClaudeConfig, CopilotConfig and OllamaConfig.
type ProviderConfig interface {
	providerName() string
}

// OpenAIConfig targets any OpenAI-compatible chat completions API.
// An empty APIKey sends no Authorization header.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// ClaudeConfig targets an Anthropic-style Messages API.
type ClaudeConfig struct {
	APIKey  string
	BaseURL string
}

// CopilotConfig holds the long-lived GitHub OAuth token used for session token exchange.
type CopilotConfig struct {
	OAuthToken string
}

// OllamaConfig targets a local Ollama server by host, e.g. http://localhost:11434.
type OllamaConfig struct {
	BaseURL string
}

func (OpenAIConfig) providerName() string  { return "openai" }
func (ClaudeConfig) providerName() string  { return "claude" }
func (CopilotConfig) providerName() string { return "copilot" }
func (OllamaConfig) providerName() string  { return "ollama" }

// OpenAI returns the keyless OpenAI-compatible config Ollama is served through.
func (c OllamaConfig) OpenAI() OpenAIConfig {
	return OpenAIConfig{BaseURL: strings.TrimRight(c.BaseURL, "/") + "/v1"}
}

// Options configures a Client.
type Options struct {
	// Timeout bounds each HTTP call, streaming included. Zero disables it.
	Timeout time.Duration
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
	// Tokens is the shared Copilot session token cache. A new one is created when nil.
	Tokens *TokenCache
	// Copilot overrides the Copilot endpoints.
	Copilot CopilotEndpoints
}

// Client is the single entry point for chat across all providers.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	tokens     *TokenCache
	copilot    CopilotEndpoints
}

// NewClient creates a new LLM client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(opts.Timeout)
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = NewTokenCache(DefaultTokenMargin)
	}
	return &Client{
		httpClient: httpClient,
		tokens:     tokens,
		copilot:    opts.Copilot.withDefaults(),
	}
}

// HTTPClient returns the transport shared by this client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Chat sends a non-streaming request and returns the complete reply.
// Any failure fails the whole call; no partial content is returned.
func (c *Client) Chat(ctx context.Context, cfg ProviderConfig, req ChatRequest) (ChatResponse, error) {
	switch cfg := cfg.(type) {
	case OpenAIConfig:
		return newOpenAIDriver(cfg).chat(ctx, c, req)
	case OllamaConfig:
		return newOpenAIDriver(cfg.OpenAI()).chat(ctx, c, req)
	case ClaudeConfig:
		return newClaudeDriver(cfg).chat(ctx, c, req)
	case CopilotConfig:
		driver, err := c.copilotDriver(ctx, cfg)
		if err != nil {
			return ChatResponse{}, err
		}
		resp, err := driver.chat(ctx, c, req)
		return resp, c.invalidateOnUnauthorized(err)
	default:
		return ChatResponse{}, unsupportedProvider(cfg)
	}
}

// ChatStream streams a reply, calling onChunk for every delta and once more
// with Done set. It returns the concatenated text. When an error is returned
// after chunks were delivered, those chunks stand and the stream is aborted.
func (c *Client) ChatStream(ctx context.Context, cfg ProviderConfig, req ChatRequest, onChunk ChunkFunc) (string, error) {
	switch cfg := cfg.(type) {
	case OpenAIConfig:
		return newOpenAIDriver(cfg).chatStream(ctx, c, req, onChunk)
	case OllamaConfig:
		return newOpenAIDriver(cfg.OpenAI()).chatStream(ctx, c, req, onChunk)
	case ClaudeConfig:
		return newClaudeDriver(cfg).chatStream(ctx, c, req, onChunk)
	case CopilotConfig:
		driver, err := c.copilotDriver(ctx, cfg)
		if err != nil {
			return "", err
		}
		full, err := driver.chatStream(ctx, c, req, onChunk)
		return full, c.invalidateOnUnauthorized(err)
	default:
		return "", unsupportedProvider(cfg)
	}
}

func unsupportedProvider(cfg ProviderConfig) error {
	return &ConfigError{Msg: fmt.Sprintf("unsupported provider config %T", cfg)}
}
