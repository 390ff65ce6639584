package service_test

import (
	"context"
	"errors"
	"testing"

	"aibox/internal/llm"
	"aibox/internal/service"
	"aibox/internal/service/mocks"
	"aibox/internal/settings"

	"go.uber.org/mock/gomock"
)

const testCatalog = `
providers:
  - name: OpenAI
    requires: openai_api_key
    models:
      - id: openai/gpt-4o
        name: GPT-4o
  - name: Anthropic
    requires: claude_api_key
    models:
      - id: claude/sonnet
        name: Sonnet
  - name: Ollama
    models:
      - id: ollama/llama3
        name: Llama 3
`

func TestModelService_ListModels(t *testing.T) {
	catalog, err := llm.ParseCatalog([]byte(testCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog() error = %v", err)
	}

	tests := []struct {
		name       string
		configured map[string]bool
		want       []string
	}{
		{name: "nothing configured", configured: map[string]bool{}, want: []string{"ollama/llama3"}},
		{name: "openai", configured: map[string]bool{settings.KeyOpenAIAPIKey: true}, want: []string{"openai/gpt-4o", "ollama/llama3"}},
		{
			name:       "all providers",
			configured: map[string]bool{settings.KeyOpenAIAPIKey: true, settings.KeyClaudeAPIKey: true},
			want:       []string{"openai/gpt-4o", "claude/sonnet", "ollama/llama3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockSettingsStore(ctrl)
			store.EXPECT().Has(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, key string) (bool, error) {
				return tt.configured[key], nil
			}).AnyTimes()

			svc := service.NewModelService(catalog, store, nil)
			models, err := svc.ListModels(testContext())
			if err != nil {
				t.Fatalf("ListModels() error = %v", err)
			}
			if len(models) != len(tt.want) {
				t.Fatalf("ListModels() = %+v, want %v", models, tt.want)
			}
			for i, id := range tt.want {
				if models[i].ID != id {
					t.Errorf("model %d = %s, want %s", i, models[i].ID, id)
				}
			}
		})
	}
}

func TestModelService_ListModels_SettingsError(t *testing.T) {
	catalog, err := llm.ParseCatalog([]byte(testCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog() error = %v", err)
	}
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSettingsStore(ctrl)
	store.EXPECT().Has(gomock.Any(), gomock.Any()).Return(false, errors.New("db locked")).AnyTimes()

	if _, err := service.NewModelService(catalog, store, nil).ListModels(testContext()); err == nil {
		t.Error("ListModels() expected error when settings cannot be read")
	}
}

func TestModelService_ListCopilotModels(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSettingsStore(ctrl)
	fetcher := mocks.NewMockCopilotModelFetcher(ctrl)
	svc := service.NewModelService(llm.Catalog{}, store, fetcher)

	store.EXPECT().Get(gomock.Any(), settings.KeyCopilotOAuthToken).Return("", false, nil)
	_, err := svc.ListCopilotModels(testContext())
	var configErr *llm.ConfigError
	if !errors.As(err, &configErr) || configErr.Msg != "GitHub Copilot not logged in" {
		t.Fatalf("ListCopilotModels() error = %v, want not logged in", err)
	}

	store.EXPECT().Get(gomock.Any(), settings.KeyCopilotOAuthToken).Return("gho_token", true, nil)
	fetcher.EXPECT().FetchCopilotModels(gomock.Any(), "gho_token").Return([]llm.ModelInfo{
		{ID: "copilot/gpt-4o", Name: "GPT-4o", Provider: "GitHub Copilot"},
	}, nil)
	models, err := svc.ListCopilotModels(testContext())
	if err != nil {
		t.Fatalf("ListCopilotModels() error = %v", err)
	}
	if len(models) != 1 || models[0].ID != "copilot/gpt-4o" {
		t.Errorf("ListCopilotModels() = %+v", models)
	}

	store.EXPECT().Get(gomock.Any(), settings.KeyCopilotOAuthToken).Return("gho_token", true, nil)
	fetcher.EXPECT().FetchCopilotModels(gomock.Any(), "gho_token").Return(nil, &llm.APIError{Status: 401, Body: "bad token"})
	var apiErr *llm.APIError
	if _, err := svc.ListCopilotModels(testContext()); !errors.As(err, &apiErr) {
		t.Errorf("ListCopilotModels() error = %v, want APIError", err)
	}
}
