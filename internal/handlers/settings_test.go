package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"aibox/internal/service"
	"aibox/internal/service/mocks"
)

func TestSettingsHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSettings := mocks.NewMockSettingsService(ctrl)
	mockSettings.EXPECT().All(gomock.Any()).Return(map[string]string{
		"openai_api_key": "sk-a...wxyz",
		"theme":          "dark",
	}, nil)

	w := httptest.NewRecorder()
	NewSettingsHandler(mockSettings).List(w, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want 200", w.Code)
	}
	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["openai_api_key"] != "sk-a...wxyz" || got["theme"] != "dark" {
		t.Errorf("settings = %v", got)
	}
}

func TestSettingsHandler_SetAndDelete(t *testing.T) {
	tests := []struct {
		name       string
		call       func(h *SettingsHandler, w http.ResponseWriter, r *http.Request)
		key        string
		body       string
		mockSetup  func(*mocks.MockSettingsService)
		wantStatus int
	}{
		{
			name: "set",
			call: (*SettingsHandler).Set,
			key:  "theme",
			body: `{"value":"dark"}`,
			mockSetup: func(m *mocks.MockSettingsService) {
				m.EXPECT().Set(gomock.Any(), "theme", "dark").Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "set unknown key",
			call: (*SettingsHandler).Set,
			key:  "colour",
			body: `{"value":"red"}`,
			mockSetup: func(m *mocks.MockSettingsService) {
				m.EXPECT().Set(gomock.Any(), "colour", "red").
					Return(&service.ValidationError{Field: "key", Message: "unknown setting colour"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "set with invalid body",
			call:       (*SettingsHandler).Set,
			key:        "theme",
			body:       `"dark"`,
			mockSetup:  func(m *mocks.MockSettingsService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "delete",
			call: (*SettingsHandler).Delete,
			key:  "claude_api_key",
			mockSetup: func(m *mocks.MockSettingsService) {
				m.EXPECT().Delete(gomock.Any(), "claude_api_key").Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "delete fails",
			call: (*SettingsHandler).Delete,
			key:  "theme",
			mockSetup: func(m *mocks.MockSettingsService) {
				m.EXPECT().Delete(gomock.Any(), "theme").Return(errors.New("db closed"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockSettings := mocks.NewMockSettingsService(ctrl)
			tt.mockSetup(mockSettings)

			req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/settings/"+tt.key, strings.NewReader(tt.body)), "key", tt.key)
			w := httptest.NewRecorder()
			tt.call(NewSettingsHandler(mockSettings), w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %v, want %v", w.Code, tt.wantStatus)
			}
		})
	}
}
