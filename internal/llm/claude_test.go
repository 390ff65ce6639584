package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClaudeRequest(t *testing.T) {
	req := ChatRequest{
		Model: "claude-sonnet-4-20250514",
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hi"},
			{Role: RoleSystem, Content: "dropped"},
			{Role: RoleAssistant, Content: "hello"},
			{Role: RoleUser, Content: "again"},
		},
	}

	got := buildClaudeRequest(req, true)
	require.NotNil(t, got.System)
	assert.Equal(t, "be brief", *got.System)
	assert.Equal(t, claudeMaxTokens, got.MaxTokens)
	assert.True(t, got.Stream)
	assert.Equal(t, []claudeMessage{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
		{Role: "user", Content: "again"},
	}, got.Messages)

	noSystem := buildClaudeRequest(ChatRequest{Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}}}, false)
	assert.Nil(t, noSystem.System)

	data, err := json.Marshal(noSystem)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"system"`)
}

func TestClaude_ChatStream(t *testing.T) {
	srv := sseServer(t, func(r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Empty(t, r.Header.Get("Authorization"))
	},
		"event: message_start\ndata: {\"type\":\"message_start\",\"message\":{\"id\":\"msg_1\"}}\n\n",
		"event: content_block_start\ndata: {\"type\":\"content_block_start\",\"index\":0}\n\n",
		"event: ping\ndata: {\"type\":\"ping\"}\n\n",
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"Hi\"}}\n\n",
		"data: {\"type\":\"future_event\",\"payload\":{\"x\":1}}\n\n",
		"data: {broken\n\n",
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\" there\"}}\n\n",
		"event: message_delta\ndata: {\"type\":\"message_delta\",\"delta\":{\"stop_reason\":\"end_turn\"}}\n\n",
		"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n",
	)

	var chunks []StreamChunk
	full, err := NewClient(Options{}).ChatStream(context.Background(), ClaudeConfig{APIKey: "sk-ant", BaseURL: srv.URL}, hiRequest("claude-x"), collect(&chunks))
	require.NoError(t, err)
	assert.Equal(t, "Hi there", full)
	assert.Equal(t, []StreamChunk{{Delta: "Hi"}, {Delta: " there"}, {Done: true}}, chunks)
}

func TestClaude_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req claudeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Hello"},{"type":"tool_use","text":"skip"},{"type":"text","text":" world"}]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(Options{}).Chat(context.Background(), ClaudeConfig{APIKey: "k", BaseURL: srv.URL}, ChatRequest{Model: "claude-x"})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", resp.Content)
	assert.Equal(t, "claude-x", resp.Model)
}

func TestClaude_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(Options{}).ChatStream(context.Background(), ClaudeConfig{APIKey: "k", BaseURL: srv.URL}, hiRequest("m"), func(StreamChunk) error { return nil })
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Contains(t, apiErr.Body, "rate_limit_error")
	assert.True(t, IsRetryable(err))
}
