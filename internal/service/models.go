package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_copilot_model_fetcher.go -package=mocks aibox/internal/service CopilotModelFetcher
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_model_service.go -package=mocks -mock_names=ModelService=MockModelService aibox/internal/service ModelService

import (
	"context"

	"aibox/internal/contextutil"
	"aibox/internal/llm"
	"aibox/internal/settings"
)

// CopilotModelFetcher lists the chat models of a Copilot account.
type CopilotModelFetcher interface {
	FetchCopilotModels(ctx context.Context, oauthToken string) ([]llm.ModelInfo, error)
}

// SettingsReader reads stored settings.
type SettingsReader interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Has(ctx context.Context, key string) (bool, error)
}

// ModelService lists the models the user can chat with.
type ModelService interface {
	// ListModels returns catalog models of every configured provider.
	ListModels(ctx context.Context) ([]llm.ModelInfo, error)
	// ListCopilotModels fetches the models of the logged in Copilot account.
	ListCopilotModels(ctx context.Context) ([]llm.ModelInfo, error)
}

// modelService implements ModelService.
type modelService struct {
	catalog  llm.Catalog
	settings SettingsReader
	copilot  CopilotModelFetcher
}

// NewModelService creates a new ModelService.
func NewModelService(catalog llm.Catalog, settings SettingsReader, copilot CopilotModelFetcher) ModelService {
	return &modelService{
		catalog:  catalog,
		settings: settings,
		copilot:  copilot,
	}
}

// ListModels returns catalog models of every provider whose credential is set.
func (s *modelService) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	var lookupErr error
	models := s.catalog.Available(func(key string) bool {
		ok, err := s.settings.Has(ctx, key)
		if err != nil && lookupErr == nil {
			lookupErr = err
		}
		return ok
	})
	if lookupErr != nil {
		return nil, WrapError(lookupErr, "failed to read provider settings")
	}
	return models, nil
}

// ListCopilotModels fetches the models of the logged in Copilot account.
func (s *modelService) ListCopilotModels(ctx context.Context) ([]llm.ModelInfo, error) {
	token, ok, err := s.settings.Get(ctx, settings.KeyCopilotOAuthToken)
	if err != nil {
		return nil, WrapError(err, "failed to read copilot token")
	}
	if !ok {
		return nil, &llm.ConfigError{Msg: "GitHub Copilot not logged in"}
	}

	models, err := s.copilot.FetchCopilotModels(ctx, token)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to fetch copilot models", "error", err)
		return nil, externalError(err, "failed to fetch copilot models")
	}
	return models, nil
}
