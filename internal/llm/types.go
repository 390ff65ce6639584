package llm

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// ChatMessage represents a single message in a chat conversation.
// Order within a conversation is chronological and significant.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the provider-neutral chat request.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
	Model    string        `json:"model"`
	Stream   bool          `json:"stream"`
}

// ChatResponse is a complete, non-streamed reply.
type ChatResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

// StreamChunk is one incremental piece of a streamed reply.
// Exactly one chunk per stream has Done set, and it is always the last one.
type StreamChunk struct {
	Delta string `json:"delta"`
	Done  bool   `json:"done"`
}

// ChunkFunc receives stream chunks in order. Returning an error aborts the stream.
type ChunkFunc func(chunk StreamChunk) error

// ModelInfo describes a selectable model.
type ModelInfo struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Provider string `json:"provider" yaml:"provider"`
}

// splitSystem returns the first system message content (if any) and the
// remaining non-system messages in their original order.
func splitSystem(messages []ChatMessage) (system string, hasSystem bool, rest []ChatMessage) {
	rest = make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			if !hasSystem {
				system = m.Content
				hasSystem = true
			}
			continue
		}
		rest = append(rest, m)
	}
	return system, hasSystem, rest
}
