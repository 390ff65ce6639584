package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks aibox/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_provider_resolver.go -package=mocks aibox/internal/service ProviderResolver
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService aibox/internal/service ChatService

import (
	"context"
	"fmt"
	"strings"

	"aibox/internal/contextutil"
	"aibox/internal/llm"
	"aibox/internal/rag"
	"aibox/internal/settings"
	"aibox/internal/storage"
)

// DefaultConversationTitle is used when a conversation is created without a title.
const DefaultConversationTitle = "New Chat"

// LLMClient is an interface for interacting with an LLM provider.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Chat returns the complete reply for req.
	Chat(ctx context.Context, cfg llm.ProviderConfig, req llm.ChatRequest) (llm.ChatResponse, error)
	// ChatStream delivers the reply through onChunk and returns the full text.
	ChatStream(ctx context.Context, cfg llm.ProviderConfig, req llm.ChatRequest, onChunk llm.ChunkFunc) (string, error)
}

// ProviderResolver maps a prefixed model string to provider credentials.
type ProviderResolver interface {
	// Resolve returns the provider config and the model id without its prefix.
	Resolve(ctx context.Context, model string) (llm.ProviderConfig, string, error)
	// Get returns a stored setting.
	Get(ctx context.Context, key string) (string, bool, error)
}

// KnowledgeSearcher finds knowledge base chunks relevant to a query.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]rag.SearchResult, error)
}

// CreateConversationRequest creates a conversation.
type CreateConversationRequest struct {
	Title string `json:"title"`
	Model string `json:"model,omitempty"`
}

// SendMessageRequest is one user turn in a conversation.
type SendMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
	// Model overrides the conversation model.
	Model string `json:"model,omitempty"`
	// UseKnowledge prepends matching knowledge base chunks as a system message.
	UseKnowledge bool `json:"use_knowledge,omitempty"`
}

// ChatChunk is a streamed fragment of an assistant reply.
type ChatChunk struct {
	ConversationID string `json:"conversation_id"`
	Delta          string `json:"delta"`
	Done           bool   `json:"done"`
}

// CompleteRequest is a one-off exchange that is not stored.
type CompleteRequest struct {
	Model    string            `json:"model"`
	Messages []llm.ChatMessage `json:"messages"`
}

// ChatService provides conversation and chat functionality.
type ChatService interface {
	// CreateConversation creates a conversation.
	CreateConversation(ctx context.Context, req CreateConversationRequest) (*storage.Conversation, error)
	// ListConversations returns conversations, most recently updated first.
	ListConversations(ctx context.Context) ([]storage.Conversation, error)
	// RenameConversation changes the title of a conversation.
	RenameConversation(ctx context.Context, id, title string) error
	// DeleteConversation removes a conversation and its messages.
	DeleteConversation(ctx context.Context, id string) error
	// ListMessages returns the messages of a conversation in order.
	ListMessages(ctx context.Context, conversationID string) ([]storage.Message, error)
	// SendMessage stores the user turn, streams the reply through onChunk and
	// stores the assistant message once the stream completes.
	SendMessage(ctx context.Context, req SendMessageRequest, onChunk func(ChatChunk) error) (*storage.Message, error)
	// Complete returns a non-streamed reply without storing anything.
	Complete(ctx context.Context, req CompleteRequest) (llm.ChatResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	conversations storage.ConversationStore
	messages      storage.MessageStore
	llmClient     LLMClient
	resolver      ProviderResolver
	knowledge     KnowledgeSearcher
	retry         llm.RetryPolicy
}

// NewChatService creates a new ChatService. knowledge may be nil, in which
// case knowledge-augmented requests are answered without context.
func NewChatService(
	conversations storage.ConversationStore,
	messages storage.MessageStore,
	llmClient LLMClient,
	resolver ProviderResolver,
	knowledge KnowledgeSearcher,
	retry llm.RetryPolicy,
) ChatService {
	return &chatService{
		conversations: conversations,
		messages:      messages,
		llmClient:     llmClient,
		resolver:      resolver,
		knowledge:     knowledge,
		retry:         retry,
	}
}

// CreateConversation creates a conversation.
func (s *chatService) CreateConversation(ctx context.Context, req CreateConversationRequest) (*storage.Conversation, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultConversationTitle
	}
	conv := &storage.Conversation{Title: title, Model: strings.TrimSpace(req.Model)}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, WrapError(err, "failed to create conversation")
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "conversation created", "conversation_id", conv.ID)
	return conv, nil
}

// ListConversations returns conversations, most recently updated first.
func (s *chatService) ListConversations(ctx context.Context) ([]storage.Conversation, error) {
	convs, err := s.conversations.List(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list conversations")
	}
	return convs, nil
}

// RenameConversation changes the title of a conversation.
func (s *chatService) RenameConversation(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if err := s.conversations.Rename(ctx, id, title); err != nil {
		return mapStorageError(err, "conversation", id)
	}
	return nil
}

// DeleteConversation removes a conversation and its messages.
func (s *chatService) DeleteConversation(ctx context.Context, id string) error {
	if err := s.conversations.Delete(ctx, id); err != nil {
		return mapStorageError(err, "conversation", id)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "conversation deleted", "conversation_id", id)
	return nil
}

// ListMessages returns the messages of a conversation in order.
func (s *chatService) ListMessages(ctx context.Context, conversationID string) ([]storage.Message, error) {
	if _, err := s.conversations.GetByID(ctx, conversationID); err != nil {
		return nil, mapStorageError(err, "conversation", conversationID)
	}
	msgs, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, WrapError(err, "failed to list messages")
	}
	return msgs, nil
}

// SendMessage runs one chat turn.
func (s *chatService) SendMessage(ctx context.Context, req SendMessageRequest, onChunk func(ChatChunk) error) (*storage.Message, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Content) == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return nil, &ValidationError{Field: "content", Message: "cannot be empty"}
	}

	conv, err := s.conversations.GetByID(ctx, req.ConversationID)
	if err != nil {
		return nil, mapStorageError(err, "conversation", req.ConversationID)
	}

	model, err := s.selectModel(ctx, req.Model, conv.Model)
	if err != nil {
		return nil, err
	}

	// 1. Save user message
	userMsg := &storage.Message{ConversationID: conv.ID, Role: string(llm.RoleUser), Content: req.Content}
	if err := s.messages.Insert(ctx, userMsg); err != nil {
		return nil, mapStorageError(err, "conversation", conv.ID)
	}

	// 2. Load full conversation history for context
	history, err := s.messages.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, WrapError(err, "failed to load conversation history")
	}

	// 3. Resolve provider
	cfg, modelID, err := s.resolver.Resolve(ctx, model)
	if err != nil {
		logger.WarnContext(ctx, "failed to resolve provider", "model", model, "error", err)
		return nil, err
	}

	chatMessages := make([]llm.ChatMessage, 0, len(history)+1)
	if req.UseKnowledge {
		if prompt := s.knowledgeContext(ctx, req.Content); prompt != "" {
			chatMessages = append(chatMessages, llm.ChatMessage{Role: llm.RoleSystem, Content: prompt})
		}
	}
	for _, m := range history {
		chatMessages = append(chatMessages, llm.ChatMessage{Role: llm.Role(m.Role), Content: m.Content})
	}

	// 4. Stream response
	logger.InfoContext(ctx, "streaming chat started",
		"conversation_id", conv.ID,
		"model", model,
		"history_length", len(chatMessages),
	)
	full, err := s.llmClient.ChatStream(ctx, cfg, llm.ChatRequest{
		Messages: chatMessages,
		Model:    modelID,
		Stream:   true,
	}, func(chunk llm.StreamChunk) error {
		if onChunk == nil {
			return nil
		}
		return onChunk(ChatChunk{ConversationID: conv.ID, Delta: chunk.Delta, Done: chunk.Done})
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to stream LLM response", "conversation_id", conv.ID, "error", err)
		return nil, externalError(err, "failed to stream LLM response")
	}

	// 5. Save assistant message
	assistantMsg := &storage.Message{ConversationID: conv.ID, Role: string(llm.RoleAssistant), Content: full}
	if err := s.messages.Insert(ctx, assistantMsg); err != nil {
		return nil, mapStorageError(err, "conversation", conv.ID)
	}

	logger.InfoContext(ctx, "chat turn completed", "conversation_id", conv.ID, "reply_length", len(full))
	return assistantMsg, nil
}

// Complete returns a non-streamed reply without storing anything.
func (s *chatService) Complete(ctx context.Context, req CompleteRequest) (llm.ChatResponse, error) {
	if len(req.Messages) == 0 {
		return llm.ChatResponse{}, &ValidationError{Field: "messages", Message: "cannot be empty"}
	}
	for _, m := range req.Messages {
		if !m.Role.Valid() {
			return llm.ChatResponse{}, &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", m.Role)}
		}
	}

	model, err := s.selectModel(ctx, req.Model, "")
	if err != nil {
		return llm.ChatResponse{}, err
	}
	cfg, modelID, err := s.resolver.Resolve(ctx, model)
	if err != nil {
		return llm.ChatResponse{}, err
	}

	var resp llm.ChatResponse
	err = s.retry.Do(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = s.llmClient.Chat(ctx, cfg, llm.ChatRequest{Messages: req.Messages, Model: modelID})
		return callErr
	})
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to get LLM response", "model", model, "error", err)
		return llm.ChatResponse{}, externalError(err, "failed to get LLM response")
	}
	return resp, nil
}

// selectModel picks the request model, then the conversation model, then the default_model setting.
func (s *chatService) selectModel(ctx context.Context, requested, conversation string) (string, error) {
	if m := strings.TrimSpace(requested); m != "" {
		return m, nil
	}
	if conversation != "" {
		return conversation, nil
	}
	m, ok, err := s.resolver.Get(ctx, settings.KeyDefaultModel)
	if err != nil {
		return "", WrapError(err, "failed to read default model")
	}
	if !ok {
		return "", &ValidationError{Field: "model", Message: "no model selected and no default_model configured"}
	}
	return m, nil
}

// knowledgeContext returns the system prompt for query, or "" when the
// knowledge base has nothing to add. Search failures are logged, not returned.
func (s *chatService) knowledgeContext(ctx context.Context, query string) string {
	if s.knowledge == nil {
		return ""
	}
	results, err := s.knowledge.Search(ctx, query, 0)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "knowledge search failed, answering without context", "error", err)
		return ""
	}
	return rag.BuildContext(results)
}
