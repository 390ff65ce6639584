package settings

import (
	"context"
	"strings"

	"aibox/internal/llm"
)

// Model prefixes selecting a provider.
const (
	PrefixOllama  = "ollama/"
	PrefixClaude  = "claude/"
	PrefixCopilot = "copilot/"
	PrefixOpenAI  = "openai/"
)

// Resolve maps a "provider/model" string to a provider config and the bare
// model id. Strings without a known prefix go to the OpenAI-compatible API
// unchanged.
func (s *Service) Resolve(ctx context.Context, model string) (llm.ProviderConfig, string, error) {
	switch {
	case strings.HasPrefix(model, PrefixOllama):
		host, err := s.getOr(ctx, KeyOllamaHost, DefaultOllamaHost)
		if err != nil {
			return nil, "", err
		}
		return llm.OllamaConfig{BaseURL: host}, strings.TrimPrefix(model, PrefixOllama), nil

	case strings.HasPrefix(model, PrefixClaude):
		key, ok, err := s.Get(ctx, KeyClaudeAPIKey)
		if err != nil {
			return nil, "", err
		}
		if !ok {
			return nil, "", &llm.ConfigError{Msg: "Claude API key not configured"}
		}
		base, err := s.getOr(ctx, KeyClaudeBaseURL, llm.DefaultClaudeBaseURL)
		if err != nil {
			return nil, "", err
		}
		return llm.ClaudeConfig{APIKey: key, BaseURL: base}, strings.TrimPrefix(model, PrefixClaude), nil

	case strings.HasPrefix(model, PrefixCopilot):
		token, ok, err := s.Get(ctx, KeyCopilotOAuthToken)
		if err != nil {
			return nil, "", err
		}
		if !ok {
			return nil, "", &llm.ConfigError{Msg: "GitHub Copilot not logged in"}
		}
		return llm.CopilotConfig{OAuthToken: token}, strings.TrimPrefix(model, PrefixCopilot), nil

	default:
		cfg, err := s.openAIConfig(ctx, "OpenAI API key not configured")
		if err != nil {
			return nil, "", err
		}
		return cfg, strings.TrimPrefix(model, PrefixOpenAI), nil
	}
}

// EmbeddingConfig returns the OpenAI-compatible config used for embeddings.
func (s *Service) EmbeddingConfig(ctx context.Context) (llm.OpenAIConfig, error) {
	return s.openAIConfig(ctx, "OpenAI API key required for knowledge base search")
}

// HasEmbeddingConfig reports whether embeddings can be generated.
func (s *Service) HasEmbeddingConfig(ctx context.Context) (bool, error) {
	return s.Has(ctx, KeyOpenAIAPIKey)
}

func (s *Service) openAIConfig(ctx context.Context, missing string) (llm.OpenAIConfig, error) {
	key, ok, err := s.Get(ctx, KeyOpenAIAPIKey)
	if err != nil {
		return llm.OpenAIConfig{}, err
	}
	if !ok {
		return llm.OpenAIConfig{}, &llm.ConfigError{Msg: missing}
	}
	base, err := s.getOr(ctx, KeyOpenAIBaseURL, llm.DefaultOpenAIBaseURL)
	if err != nil {
		return llm.OpenAIConfig{}, err
	}
	return llm.OpenAIConfig{APIKey: key, BaseURL: base}, nil
}
