package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"aibox/internal/contextutil"
)

const (
	// DefaultCopilotTokenURL exchanges a GitHub OAuth token for a Copilot session token.
	DefaultCopilotTokenURL = "https://api.github.com/copilot_internal/v2/token"
	// DefaultCopilotAPIBaseURL serves chat completions and the model list.
	DefaultCopilotAPIBaseURL = "https://api.githubcopilot.com"

	copilotEditorVersion = "vscode/1.95.0"
	copilotPluginVersion = "copilot-chat/0.22.0"
	copilotIntegrationID = "vscode-chat"
	copilotUserAgent     = "GitHubCopilotChat/0.22.0"
	copilotProviderLabel = "GitHub Copilot"
)

// CopilotEndpoints locates the Copilot token exchange and API.
type CopilotEndpoints struct {
	TokenURL   string
	APIBaseURL string
}

func (e CopilotEndpoints) withDefaults() CopilotEndpoints {
	if e.TokenURL == "" {
		e.TokenURL = DefaultCopilotTokenURL
	}
	if e.APIBaseURL == "" {
		e.APIBaseURL = DefaultCopilotAPIBaseURL
	}
	e.APIBaseURL = strings.TrimRight(e.APIBaseURL, "/")
	return e
}

func copilotHeader(sessionToken string) map[string]string {
	return map[string]string{
		headerAuthorization:     bearer(sessionToken),
		"Copilot-Integration-Id": copilotIntegrationID,
		"Editor-Version":         copilotEditorVersion,
		"Editor-Plugin-Version":  copilotPluginVersion,
		"User-Agent":             copilotUserAgent,
	}
}

type copilotTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// exchangeCopilotToken trades the long-lived OAuth token for a session token.
func (c *Client) exchangeCopilotToken(ctx context.Context, oauthToken string) (CachedToken, error) {
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "exchanging copilot session token")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.copilot.TokenURL, nil)
	if err != nil {
		return CachedToken{}, err
	}
	req.Header.Set(headerAuthorization, "token "+oauthToken)
	req.Header.Set(headerAccept, mimeJSON)
	req.Header.Set("Editor-Version", copilotEditorVersion)
	req.Header.Set("Editor-Plugin-Version", copilotPluginVersion)
	req.Header.Set("User-Agent", copilotUserAgent)

	resp, err := send(c.httpClient, req)
	if err != nil {
		return CachedToken{}, err
	}

	var out copilotTokenResponse
	if err := decodeJSON(resp, &out); err != nil {
		return CachedToken{}, err
	}
	if out.Token == "" {
		return CachedToken{}, &ParseError{Msg: "token exchange returned no token"}
	}
	return CachedToken{Token: out.Token, ExpiresAt: out.ExpiresAt}, nil
}

// sessionToken returns a fresh session token, exchanging only when the cached one is stale.
func (c *Client) sessionToken(ctx context.Context, cfg CopilotConfig) (string, error) {
	if cfg.OAuthToken == "" {
		return "", &ConfigError{Msg: "GitHub Copilot not logged in"}
	}
	return c.tokens.Token(ctx, cfg.OAuthToken, func(ctx context.Context) (CachedToken, error) {
		return c.exchangeCopilotToken(ctx, cfg.OAuthToken)
	})
}

func (c *Client) copilotDriver(ctx context.Context, cfg CopilotConfig) (openAICompatible, error) {
	token, err := c.sessionToken(ctx, cfg)
	if err != nil {
		return openAICompatible{}, err
	}
	return openAICompatible{
		endpoint: c.copilot.APIBaseURL + "/chat/completions",
		header:   copilotHeader(token),
	}, nil
}

// invalidateOnUnauthorized drops the cached session token when the API rejected it.
func (c *Client) invalidateOnUnauthorized(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		c.tokens.Invalidate()
	}
	return err
}

type copilotModelsResponse struct {
	Data []struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Capabilities struct {
			Type string `json:"type"`
		} `json:"capabilities"`
	} `json:"data"`
}

// FetchCopilotModels lists the chat-capable models available to oauthToken.
// Model ids carry the "copilot/" prefix used for provider resolution.
func (c *Client) FetchCopilotModels(ctx context.Context, oauthToken string) ([]ModelInfo, error) {
	token, err := c.sessionToken(ctx, CopilotConfig{OAuthToken: oauthToken})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.copilot.APIBaseURL+"/models", nil)
	if err != nil {
		return nil, err
	}
	for k, v := range copilotHeader(token) {
		req.Header.Set(k, v)
	}
	req.Header.Set(headerAccept, mimeJSON)

	resp, err := send(c.httpClient, req)
	if err != nil {
		return nil, c.invalidateOnUnauthorized(err)
	}

	var out copilotModelsResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}

	models := make([]ModelInfo, 0, len(out.Data))
	for _, m := range out.Data {
		if m.Capabilities.Type != "chat" {
			continue
		}
		name := m.Name
		if name == "" {
			name = m.ID
		}
		models = append(models, ModelInfo{
			ID:       "copilot/" + m.ID,
			Name:     name,
			Provider: copilotProviderLabel,
		})
	}
	return models, nil
}
