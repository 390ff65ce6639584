package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"aibox/internal/indexer"
	"aibox/internal/llm"
	"aibox/internal/rag"
	"aibox/internal/service"
	"aibox/internal/service/mocks"
	"aibox/internal/storage"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

type routerMocks struct {
	chat      *mocks.MockChatService
	knowledge *mocks.MockKnowledgeService
	models    *mocks.MockModelService
	copilot   *mocks.MockCopilotService
	settings  *mocks.MockSettingsService
}

func newTestRouter(t *testing.T) (http.Handler, routerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := routerMocks{
		chat:      mocks.NewMockChatService(ctrl),
		knowledge: mocks.NewMockKnowledgeService(ctrl),
		models:    mocks.NewMockModelService(ctrl),
		copilot:   mocks.NewMockCopilotService(ctrl),
		settings:  mocks.NewMockSettingsService(ctrl),
	}
	router := NewRouter(&Deps{
		DB:        okPinger{},
		Chat:      m.chat,
		Knowledge: m.knowledge,
		Models:    m.models,
		Copilot:   m.copilot,
		Settings:  m.settings,
	})
	return router, m
}

func TestNewRouter(t *testing.T) {
	router, _ := newTestRouter(t)
	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		mockSetup  func(m routerMocks)
		wantStatus int
	}{
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			mockSetup:  func(m routerMocks) {},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/settings",
			method: http.MethodGet,
			path:   "/api/settings",
			mockSetup: func(m routerMocks) {
				m.settings.EXPECT().All(gomock.Any()).Return(map[string]string{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "PUT /api/settings/{key}",
			method: http.MethodPut,
			path:   "/api/settings/theme",
			body:   `{"value":"dark"}`,
			mockSetup: func(m routerMocks) {
				m.settings.EXPECT().Set(gomock.Any(), "theme", "dark").Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "DELETE /api/settings/{key}",
			method: http.MethodDelete,
			path:   "/api/settings/theme",
			mockSetup: func(m routerMocks) {
				m.settings.EXPECT().Delete(gomock.Any(), "theme").Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "GET /api/models",
			method: http.MethodGet,
			path:   "/api/models",
			mockSetup: func(m routerMocks) {
				m.models.EXPECT().ListModels(gomock.Any()).Return([]llm.ModelInfo{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/models/copilot",
			method: http.MethodGet,
			path:   "/api/models/copilot",
			mockSetup: func(m routerMocks) {
				m.models.EXPECT().ListCopilotModels(gomock.Any()).Return([]llm.ModelInfo{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "POST /api/copilot/login",
			method: http.MethodPost,
			path:   "/api/copilot/login",
			mockSetup: func(m routerMocks) {
				m.copilot.EXPECT().StartLogin(gomock.Any()).Return(llm.DeviceCodeResponse{DeviceCode: "d"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "POST /api/copilot/login/poll",
			method: http.MethodPost,
			path:   "/api/copilot/login/poll",
			body:   `{"device_code":"d"}`,
			mockSetup: func(m routerMocks) {
				m.copilot.EXPECT().PollLogin(gomock.Any(), "d").Return(false, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/copilot/status",
			method: http.MethodGet,
			path:   "/api/copilot/status",
			mockSetup: func(m routerMocks) {
				m.copilot.EXPECT().IsLoggedIn(gomock.Any()).Return(false, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "DELETE /api/copilot/login",
			method: http.MethodDelete,
			path:   "/api/copilot/login",
			mockSetup: func(m routerMocks) {
				m.copilot.EXPECT().Logout(gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "GET /api/conversations",
			method: http.MethodGet,
			path:   "/api/conversations",
			mockSetup: func(m routerMocks) {
				m.chat.EXPECT().ListConversations(gomock.Any()).Return([]storage.Conversation{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "POST /api/conversations",
			method: http.MethodPost,
			path:   "/api/conversations",
			body:   `{}`,
			mockSetup: func(m routerMocks) {
				m.chat.EXPECT().CreateConversation(gomock.Any(), service.CreateConversationRequest{}).
					Return(&storage.Conversation{ID: "c1", Title: "New Chat"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "PATCH /api/conversations/{id}",
			method: http.MethodPatch,
			path:   "/api/conversations/c1",
			body:   `{"title":"x"}`,
			mockSetup: func(m routerMocks) {
				m.chat.EXPECT().RenameConversation(gomock.Any(), "c1", "x").Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "DELETE /api/conversations/{id}",
			method: http.MethodDelete,
			path:   "/api/conversations/c1",
			mockSetup: func(m routerMocks) {
				m.chat.EXPECT().DeleteConversation(gomock.Any(), "c1").Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "GET /api/conversations/{id}/messages",
			method: http.MethodGet,
			path:   "/api/conversations/c1/messages",
			mockSetup: func(m routerMocks) {
				m.chat.EXPECT().ListMessages(gomock.Any(), "c1").Return([]storage.Message{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "POST /api/conversations/{id}/messages streams through middleware",
			method: http.MethodPost,
			path:   "/api/conversations/c1/messages",
			body:   `{"content":"hi"}`,
			mockSetup: func(m routerMocks) {
				m.chat.EXPECT().SendMessage(gomock.Any(), service.SendMessageRequest{ConversationID: "c1", Content: "hi"}, gomock.Any()).
					DoAndReturn(func(ctx context.Context, req service.SendMessageRequest, onChunk func(service.ChatChunk) error) (*storage.Message, error) {
						if err := onChunk(service.ChatChunk{ConversationID: "c1", Done: true}); err != nil {
							return nil, err
						}
						return &storage.Message{ID: "m1"}, nil
					})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/documents",
			method: http.MethodGet,
			path:   "/api/documents",
			mockSetup: func(m routerMocks) {
				m.knowledge.EXPECT().ListDocuments(gomock.Any()).Return([]storage.Document{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "POST /api/documents",
			method: http.MethodPost,
			path:   "/api/documents",
			body:   `{"path":"/tmp/a.txt"}`,
			mockSetup: func(m routerMocks) {
				m.knowledge.EXPECT().Ingest(gomock.Any(), "/tmp/a.txt").Return(&indexer.IngestResult{Chunks: 1}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "DELETE /api/documents/{id}",
			method: http.MethodDelete,
			path:   "/api/documents/d1",
			mockSetup: func(m routerMocks) {
				m.knowledge.EXPECT().DeleteDocument(gomock.Any(), "d1").Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "POST /api/knowledge/search",
			method: http.MethodPost,
			path:   "/api/knowledge/search",
			body:   `{"query":"q","top_k":3}`,
			mockSetup: func(m routerMocks) {
				m.knowledge.EXPECT().Search(gomock.Any(), "q", 3).Return([]rag.SearchResult{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/knowledge/stats",
			method: http.MethodGet,
			path:   "/api/knowledge/stats",
			mockSetup: func(m routerMocks) {
				m.knowledge.EXPECT().Stats(gomock.Any()).Return(&indexer.CoverageStats{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/knowledge/search method not allowed",
			method:     http.MethodGet,
			path:       "/api/knowledge/search",
			mockSetup:  func(m routerMocks) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/nope",
			mockSetup:  func(m routerMocks) {},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t)
			tt.mockSetup(m)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/conversations", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %v, want %v", w.Code, http.StatusNoContent)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("Router should apply CORS middleware")
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("Router should apply LoggerMiddleware")
	}
}

func TestRouter_RecoversFromPanic(t *testing.T) {
	router, m := newTestRouter(t)
	m.chat.EXPECT().ListConversations(gomock.Any()).DoAndReturn(func(context.Context) ([]storage.Conversation, error) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/conversations", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %v, want %v", w.Code, http.StatusInternalServerError)
	}
}
