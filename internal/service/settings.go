package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_settings_store.go -package=mocks aibox/internal/service SettingsStore
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_settings_service.go -package=mocks -mock_names=SettingsService=MockSettingsService aibox/internal/service SettingsService

import (
	"context"
	"errors"

	"aibox/internal/settings"
)

// SettingsStore reads and writes runtime settings.
type SettingsStore interface {
	SettingsReader
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	All(ctx context.Context) (map[string]string, error)
}

// SettingsService exposes runtime settings with secrets masked.
type SettingsService interface {
	// All returns every stored setting with API keys masked.
	All(ctx context.Context) (map[string]string, error)
	// Set stores a known setting.
	Set(ctx context.Context, key, value string) error
	// Delete removes a setting.
	Delete(ctx context.Context, key string) error
}

// settingsService implements SettingsService.
type settingsService struct {
	store SettingsStore
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(store SettingsStore) SettingsService {
	return &settingsService{store: store}
}

// All returns every stored setting with API keys masked.
func (s *settingsService) All(ctx context.Context) (map[string]string, error) {
	values, err := s.store.All(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to read settings")
	}
	return values, nil
}

// Set stores a known setting.
func (s *settingsService) Set(ctx context.Context, key, value string) error {
	err := s.store.Set(ctx, key, value)
	if errors.Is(err, settings.ErrUnknownKey) {
		return &ValidationError{Field: "key", Message: "unknown setting " + key}
	}
	if err != nil {
		return WrapError(err, "failed to store setting")
	}
	return nil
}

// Delete removes a setting.
func (s *settingsService) Delete(ctx context.Context, key string) error {
	if !settings.IsKnownKey(key) {
		return &ValidationError{Field: "key", Message: "unknown setting " + key}
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return WrapError(err, "failed to delete setting")
	}
	return nil
}
