package settings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"aibox/internal/storage"
)

// Known setting keys.
const (
	KeyOpenAIAPIKey      = "openai_api_key"
	KeyOpenAIBaseURL     = "openai_base_url"
	KeyClaudeAPIKey      = "claude_api_key"
	KeyClaudeBaseURL     = "claude_base_url"
	KeyOllamaHost        = "ollama_host"
	KeyCopilotOAuthToken = "copilot_oauth_token"
	KeyDefaultModel      = "default_model"
	KeyTheme             = "theme"
)

// DefaultOllamaHost is used when ollama_host is not set.
const DefaultOllamaHost = "http://localhost:11434"

// ErrUnknownKey is returned by Set for keys outside Keys.
var ErrUnknownKey = errors.New("unknown setting key")

// Keys lists every accepted setting key.
var Keys = []string{
	KeyOpenAIAPIKey,
	KeyOpenAIBaseURL,
	KeyClaudeAPIKey,
	KeyClaudeBaseURL,
	KeyOllamaHost,
	KeyCopilotOAuthToken,
	KeyDefaultModel,
	KeyTheme,
}

// Service reads and writes runtime settings, including provider credentials.
type Service struct {
	store storage.SettingsStore
}

// NewService creates a settings service over store.
func NewService(store storage.SettingsStore) *Service {
	return &Service{store: store}
}

// IsKnownKey reports whether key is accepted by Set.
func IsKnownKey(key string) bool {
	return slices.Contains(Keys, key)
}

// Get returns a non-empty stored value.
func (s *Service) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	if !ok || value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// Has reports whether key holds a non-empty value.
func (s *Service) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

// Set stores value under key. Unknown keys are rejected.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return s.store.Set(ctx, key, value)
}

// Delete removes key.
func (s *Service) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}

// All returns the known settings that are stored, with API keys masked.
func (s *Service) All(ctx context.Context) (map[string]string, error) {
	stored, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	out := make(map[string]string, len(stored))
	for _, key := range Keys {
		value, ok := stored[key]
		if !ok {
			continue
		}
		if strings.HasSuffix(key, "_api_key") {
			value = Mask(value)
		}
		out[key] = value
	}
	return out, nil
}

// Mask shortens a secret longer than 8 characters to its first and last four.
func Mask(value string) string {
	r := []rune(value)
	if len(r) <= 8 {
		return value
	}
	return string(r[:4]) + "..." + string(r[len(r)-4:])
}

// getOr returns the stored value for key or fallback when it is unset.
func (s *Service) getOr(ctx context.Context, key, fallback string) (string, error) {
	value, ok, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return fallback, nil
	}
	return value, nil
}
