package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transport", &TransportError{Op: "POST /chat", Err: errors.New("refused")}, true},
		{"wrapped transport", fmt.Errorf("chat: %w", &TransportError{Op: "x", Err: errors.New("eof")}), true},
		{"rate limited", &APIError{Status: 429, Body: "slow down"}, true},
		{"server error", &APIError{Status: 503, Body: "unavailable"}, true},
		{"unauthorized", &APIError{Status: 401, Body: "bad key"}, false},
		{"bad request", &APIError{Status: 400}, false},
		{"parse", &ParseError{Msg: "no choices returned"}, false},
		{"config", &ConfigError{Msg: "missing key"}, false},
		{"plain", errors.New("other"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&APIError{Status: 401, Body: `{"error":"bad key"}`}, `API error: 401 - {"error":"bad key"}`},
		{&ConfigError{Msg: "Claude API key not configured"}, "config error: Claude API key not configured"},
		{&ParseError{Msg: "no choices returned"}, "parse error: no choices returned"},
		{&TransportError{Op: "read stream", Err: errors.New("eof")}, "transport error: read stream: eof"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
