package api_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roadmate/backend/internal/api"
	"roadmate/backend/internal/auth"
	"roadmate/backend/internal/interfaces/mocks"
	"roadmate/backend/internal/model"
)

type routerMocks struct {
	chat   *mocks.MockChatService
	auth   *mocks.MockAuthService
	report *mocks.MockReportService
}

func setupRouter(t *testing.T, uploadDir string) (http.Handler, routerMocks) {
	m := routerMocks{
		chat:   mocks.NewMockChatService(t),
		auth:   mocks.NewMockAuthService(t),
		report: mocks.NewMockReportService(t),
	}
	router := api.NewRouter(api.Handlers{
		Chat:          api.NewChatHandler(m.chat, false),
		Auth:          api.NewAuthHandler(m.auth),
		User:          api.NewUserHandler(mocks.NewMockUserService(t)),
		Report:        api.NewReportHandler(m.report),
		Authenticator: api.Authenticator(m.auth),
	}, api.RouterConfig{UploadDir: uploadDir, RequestTimeout: 5 * time.Second})
	return router, m
}

func TestRouter(t *testing.T) {
	t.Run("Health check", func(t *testing.T) {
		router, _ := setupRouter(t, "")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("Chat requires a token", func(t *testing.T) {
		router, _ := setupRouter(t, "")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message":"hi"}`)))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Chat with a token reaches the service", func(t *testing.T) {
		router, m := setupRouter(t, "")
		m.auth.On("Authenticate", "tok").Return(&auth.Claims{ID: "user-1", UserType: model.UserTypeUser}, nil).Once()
		m.chat.On("SendMessage", mock.Anything, "user-1", "", "hi").
			Return(&model.ChatReply{Response: "hello", ConversationID: "c1"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message":"hi"}`))
		req.Header.Set("Authorization", "Bearer tok")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("History route binds the conversation ID", func(t *testing.T) {
		router, m := setupRouter(t, "")
		m.auth.On("Authenticate", "tok").Return(&auth.Claims{ID: "user-1", UserType: model.UserTypeUser}, nil).Once()
		m.chat.On("ListHistory", mock.Anything, "user-1", "conv-9", model.Page{Limit: 3}).Return([]model.Message{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/ai/conversations/conv-9/history?limit=3", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Moderation requires an admin", func(t *testing.T) {
		router, m := setupRouter(t, "")
		m.auth.On("Authenticate", "tok").Return(&auth.Claims{ID: "user-1", UserType: model.UserTypeUser}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/report/r1/status", strings.NewReader(`{"status":"reviewed"}`))
		req.Header.Set("Authorization", "Bearer tok")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Forum is public", func(t *testing.T) {
		router, m := setupRouter(t, "")
		m.report.On("Forum", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/report/forum", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("Uploads are served", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "profile-photos"), 0750))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "profile-photos", "a.txt"), []byte("hello"), 0640))
		router, _ := setupRouter(t, dir)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/profile-photos/a.txt", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "hello", rr.Body.String())
	})
}
