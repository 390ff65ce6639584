package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
	headerAccept        = "Accept"
	mimeJSON            = "application/json"
	mimeEventStream     = "text/event-stream"
)

// newHTTPClient creates an HTTP client with a per-call timeout.
// A zero timeout means no timeout.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// bearer returns an Authorization header value, or "" for an empty token so
// that keyless backends (Ollama) never receive a malformed header.
func bearer(token string) string {
	if token == "" {
		return ""
	}
	return "Bearer " + token
}

// sendJSON POSTs body as JSON and returns the response when the status is 2xx.
// Empty header values are not sent.
func sendJSON(ctx context.Context, client *http.Client, url string, header map[string]string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(headerContentType, mimeJSON)
	for k, v := range header {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	return send(client, req)
}

// send executes req. Transport failures become *TransportError and non-2xx
// responses become *APIError carrying the raw body.
func send(client *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: req.Method + " " + req.URL.Path, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	return resp, nil
}

// decodeJSON decodes and closes the response body.
func decodeJSON(resp *http.Response, v any) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &ParseError{Msg: "failed to decode response", Err: err}
	}
	return nil
}
