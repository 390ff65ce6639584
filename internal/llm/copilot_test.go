package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type copilotFake struct {
	exchanges  atomic.Int32
	chatStatus atomic.Int32
	srv        *httptest.Server
}

func newCopilotFake(t *testing.T) *copilotFake {
	t.Helper()
	f := &copilotFake{}
	f.chatStatus.Store(http.StatusOK)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /token", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token gho_oauth" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("bad oauth token"))
			return
		}
		n := f.exchanges.Add(1)
		_ = json.NewEncoder(w).Encode(copilotTokenResponse{
			Token:     fmt.Sprintf("session-%d", n),
			ExpiresAt: time.Now().Add(30 * time.Minute).Unix(),
		})
	})
	mux.HandleFunc("POST /chat/completions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "vscode-chat", r.Header.Get("Copilot-Integration-Id"))
		assert.Equal(t, "vscode/1.95.0", r.Header.Get("Editor-Version"))
		assert.Equal(t, "copilot-chat/0.22.0", r.Header.Get("Editor-Plugin-Version"))
		assert.Regexp(t, `^Bearer session-\d+$`, r.Header.Get("Authorization"))

		if status := int(f.chatStatus.Load()); status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("unauthorized"))
			return
		}
		_, _ = fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"co\"}}]}\n\n")
		_, _ = fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"pilot\"},\"finish_reason\":\"stop\"}]}\n\n")
	})
	mux.HandleFunc("GET /models", func(w http.ResponseWriter, r *http.Request) {
		assert.Regexp(t, `^Bearer session-\d+$`, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[
			{"id":"gpt-4o","name":"GPT-4o","capabilities":{"type":"chat"}},
			{"id":"text-embedding-3-small","name":"Embedding V3","capabilities":{"type":"embeddings"}},
			{"id":"claude-3.5-sonnet","name":"","capabilities":{"type":"chat"}}
		]}`))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *copilotFake) client() *Client {
	return NewClient(Options{
		Copilot: CopilotEndpoints{TokenURL: f.srv.URL + "/token", APIBaseURL: f.srv.URL + "/"},
	})
}

func TestCopilot_ChatStream_ReusesSessionToken(t *testing.T) {
	fake := newCopilotFake(t)
	client := fake.client()
	cfg := CopilotConfig{OAuthToken: "gho_oauth"}

	for i := 0; i < 3; i++ {
		var chunks []StreamChunk
		full, err := client.ChatStream(context.Background(), cfg, hiRequest("gpt-4o"), collect(&chunks))
		require.NoError(t, err)
		assert.Equal(t, "copilot", full)
		assert.Equal(t, []StreamChunk{{Delta: "co"}, {Delta: "pilot"}, {Done: true}}, chunks)
	}

	assert.Equal(t, int32(1), fake.exchanges.Load(), "session token should be exchanged once")
}

func TestCopilot_UnauthorizedInvalidatesCache(t *testing.T) {
	fake := newCopilotFake(t)
	client := fake.client()
	cfg := CopilotConfig{OAuthToken: "gho_oauth"}

	fake.chatStatus.Store(http.StatusUnauthorized)
	_, err := client.ChatStream(context.Background(), cfg, hiRequest("gpt-4o"), func(StreamChunk) error { return nil })
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	fake.chatStatus.Store(http.StatusOK)
	_, err = client.ChatStream(context.Background(), cfg, hiRequest("gpt-4o"), func(StreamChunk) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, int32(2), fake.exchanges.Load())
}

func TestCopilot_NotLoggedIn(t *testing.T) {
	_, err := NewClient(Options{}).Chat(context.Background(), CopilotConfig{}, hiRequest("gpt-4o"))
	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "GitHub Copilot not logged in", configErr.Msg)
}

func TestCopilot_ExchangeFailure(t *testing.T) {
	fake := newCopilotFake(t)
	_, err := fake.client().Chat(context.Background(), CopilotConfig{OAuthToken: "wrong"}, hiRequest("gpt-4o"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "bad oauth token", apiErr.Body)
}

func TestCopilot_FetchModels(t *testing.T) {
	fake := newCopilotFake(t)
	models, err := fake.client().FetchCopilotModels(context.Background(), "gho_oauth")
	require.NoError(t, err)
	assert.Equal(t, []ModelInfo{
		{ID: "copilot/gpt-4o", Name: "GPT-4o", Provider: "GitHub Copilot"},
		{ID: "copilot/claude-3.5-sonnet", Name: "claude-3.5-sonnet", Provider: "GitHub Copilot"},
	}, models)
}
