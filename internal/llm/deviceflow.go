package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultCopilotClientID is the OAuth application used for Copilot device login.
	DefaultCopilotClientID = "Iv1.b507a08c87ecfe98"

	deviceGrantType = "urn:ietf:params:oauth:grant-type:device_code"
	deviceScope     = "read:user"
)

// DeviceCodeResponse is what the user needs to complete a device login.
type DeviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int64  `json:"expires_in"`
	Interval        int64  `json:"interval"`
}

// DeviceFlow implements the OAuth device authorization grant against GitHub.
type DeviceFlow struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewDeviceFlow creates a device flow for clientID. httpClient may be nil.
func NewDeviceFlow(clientID string, endpoint oauth2.Endpoint, httpClient *http.Client) *DeviceFlow {
	if clientID == "" {
		clientID = DefaultCopilotClientID
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DeviceFlow{
		config: &oauth2.Config{
			ClientID: clientID,
			Endpoint: endpoint,
			Scopes:   []string{deviceScope},
		},
		httpClient: httpClient,
	}
}

// Start requests a device and user code.
func (f *DeviceFlow) Start(ctx context.Context) (DeviceCodeResponse, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)

	resp, err := f.config.DeviceAuth(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return DeviceCodeResponse{}, &APIError{Status: retrieveErr.Response.StatusCode, Body: string(retrieveErr.Body)}
		}
		return DeviceCodeResponse{}, &TransportError{Op: "device authorization", Err: err}
	}

	out := DeviceCodeResponse{
		DeviceCode:      resp.DeviceCode,
		UserCode:        resp.UserCode,
		VerificationURI: resp.VerificationURI,
		Interval:        resp.Interval,
	}
	if !resp.Expiry.IsZero() {
		out.ExpiresIn = int64(time.Until(resp.Expiry).Seconds())
	}
	return out, nil
}

type deviceTokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Poll checks once whether the user has authorized deviceCode. It returns
// ok=false with no error while authorization is pending. GitHub answers
// pending polls with 200 and an error field, so the body is read regardless
// of the status code.
func (f *DeviceFlow) Poll(ctx context.Context, deviceCode string) (token string, ok bool, err error) {
	form := url.Values{
		"client_id":   {f.config.ClientID},
		"device_code": {deviceCode},
		"grant_type":  {deviceGrantType},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.config.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(headerContentType, "application/x-www-form-urlencoded")
	req.Header.Set(headerAccept, mimeJSON)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", false, &TransportError{Op: "poll device token", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, &TransportError{Op: "read device token", Err: err}
	}

	var out deviceTokenResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", false, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	switch {
	case out.AccessToken != "":
		return out.AccessToken, true, nil
	case out.Error == "authorization_pending", out.Error == "slow_down":
		return "", false, nil
	case out.Error != "":
		msg := out.Error
		if out.ErrorDescription != "" {
			msg += ": " + out.ErrorDescription
		}
		return "", false, &APIError{Status: resp.StatusCode, Body: msg}
	default:
		return "", false, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
}
