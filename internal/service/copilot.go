package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_device_flow.go -package=mocks aibox/internal/service DeviceFlow
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_copilot_service.go -package=mocks -mock_names=CopilotService=MockCopilotService aibox/internal/service CopilotService

import (
	"context"
	"strings"

	"aibox/internal/contextutil"
	"aibox/internal/llm"
	"aibox/internal/settings"
)

// DeviceFlow runs the GitHub device authorization grant.
type DeviceFlow interface {
	Start(ctx context.Context) (llm.DeviceCodeResponse, error)
	Poll(ctx context.Context, deviceCode string) (token string, ok bool, err error)
}

// CopilotService manages the GitHub Copilot login.
type CopilotService interface {
	// StartLogin requests a device code for the user to authorize.
	StartLogin(ctx context.Context) (llm.DeviceCodeResponse, error)
	// PollLogin checks whether deviceCode was authorized and stores the token when it was.
	PollLogin(ctx context.Context, deviceCode string) (bool, error)
	// IsLoggedIn reports whether a Copilot token is stored.
	IsLoggedIn(ctx context.Context) (bool, error)
	// Logout forgets the stored token.
	Logout(ctx context.Context) error
}

// copilotService implements CopilotService.
type copilotService struct {
	flow     DeviceFlow
	settings SettingsStore
}

// NewCopilotService creates a new CopilotService.
func NewCopilotService(flow DeviceFlow, settings SettingsStore) CopilotService {
	return &copilotService{
		flow:     flow,
		settings: settings,
	}
}

// StartLogin requests a device code.
func (s *copilotService) StartLogin(ctx context.Context) (llm.DeviceCodeResponse, error) {
	resp, err := s.flow.Start(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to start copilot login", "error", err)
		return llm.DeviceCodeResponse{}, externalError(err, "failed to start copilot login")
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "copilot login started", "verification_uri", resp.VerificationURI, "expires_in", resp.ExpiresIn)
	return resp, nil
}

// PollLogin checks whether deviceCode was authorized.
func (s *copilotService) PollLogin(ctx context.Context, deviceCode string) (bool, error) {
	deviceCode = strings.TrimSpace(deviceCode)
	if deviceCode == "" {
		return false, &ValidationError{Field: "device_code", Message: "cannot be empty"}
	}

	token, ok, err := s.flow.Poll(ctx, deviceCode)
	if err != nil {
		return false, externalError(err, "failed to poll copilot login")
	}
	if !ok {
		return false, nil
	}

	if err := s.settings.Set(ctx, settings.KeyCopilotOAuthToken, token); err != nil {
		return false, WrapError(err, "failed to store copilot token")
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "copilot login completed")
	return true, nil
}

// IsLoggedIn reports whether a Copilot token is stored.
func (s *copilotService) IsLoggedIn(ctx context.Context) (bool, error) {
	ok, err := s.settings.Has(ctx, settings.KeyCopilotOAuthToken)
	if err != nil {
		return false, WrapError(err, "failed to read copilot token")
	}
	return ok, nil
}

// Logout forgets the stored token.
func (s *copilotService) Logout(ctx context.Context) error {
	if err := s.settings.Delete(ctx, settings.KeyCopilotOAuthToken); err != nil {
		return WrapError(err, "failed to remove copilot token")
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "copilot logged out")
	return nil
}
