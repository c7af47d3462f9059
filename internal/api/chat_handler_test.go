// The `_test` suffix creates a "black box" test package that can only use the
// exported API of package api.
package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"roadmate/backend/internal/api"
	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/interfaces/mocks"
	"roadmate/backend/internal/llm"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/service"
)

func setupChatHandler(t *testing.T, exposeDetails bool) (*api.ChatHandler, *mocks.MockChatService) {
	mockChatSvc := mocks.NewMockChatService(t)
	return api.NewChatHandler(mockChatSvc, exposeDetails), mockChatSvc
}

// addChiURLParams simulates how the chi router injects URL parameters
// (e.g. `{conversationID}`) into the request's context.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// asUser attaches an authenticated identity, as Authenticator would.
func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(api.WithIdentity(req.Context(), api.Identity{UserID: userID, UserType: model.UserTypeUser}))
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

// TestChatHandler_HandleChat tests POST /ai/chat.
func TestChatHandler_HandleChat(t *testing.T) {
	t.Run("Success - new conversation", func(t *testing.T) {
		// ARRANGE
		handler, mockChatSvc := setupChatHandler(t, false)
		reply := &model.ChatReply{
			Response:       "Yield to traffic already on the roundabout.",
			ConversationID: "conv-1",
			History: []model.HistoryEntry{
				{Role: model.RoleUser, Content: "Who has priority?"},
				{Role: model.RoleModel, Content: "Yield to traffic already on the roundabout."},
			},
		}
		mockChatSvc.On("SendMessage", mock.Anything, "user-1", "", "Who has priority?").Return(reply, nil).Once()

		// ACT
		req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message":"Who has priority?"}`))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, asUser(req, "user-1"))

		// ASSERT
		assert.Equal(t, http.StatusOK, rr.Code)
		var got model.ChatReply
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, *reply, got)
	})

	t.Run("Success - existing conversation", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		mockChatSvc.On("SendMessage", mock.Anything, "user-1", "conv-1", "And at night?").
			Return(&model.ChatReply{Response: "Same rules.", ConversationID: "conv-1"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message":"And at night?","conversationId":"conv-1"}`))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, asUser(req, "user-1"))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - missing message", func(t *testing.T) {
		// ARRANGE: the service must not be reached.
		handler, _ := setupChatHandler(t, false)

		req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, asUser(req, "user-1"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeBody(t, rr)["error"], "'message'")
	})

	t.Run("Failure - malformed JSON", func(t *testing.T) {
		handler, _ := setupChatHandler(t, false)

		req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message":`))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, asUser(req, "user-1"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - no identity", func(t *testing.T) {
		handler, _ := setupChatHandler(t, false)

		req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message":"hi"}`))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Failure - unknown conversation", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		mockChatSvc.On("SendMessage", mock.Anything, "user-1", "nope", "hi").
			Return(nil, app_errors.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message":"hi","conversationId":"nope"}`))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, asUser(req, "user-1"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - conversation busy", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		mockChatSvc.On("SendMessage", mock.Anything, "user-1", "conv-1", "hi").
			Return(nil, errors.Join(app_errors.ErrConflict, errors.New("conversation is busy"))).Once()

		req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message":"hi","conversationId":"conv-1"}`))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, asUser(req, "user-1"))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	providerErr := errors.Join(app_errors.ErrProvider, &llm.ProviderError{Kind: llm.KindQuota, Err: errors.New("quota exhausted")})

	t.Run("Failure - provider error hides details in production", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		mockChatSvc.On("SendMessage", mock.Anything, "user-1", "", "hi").Return(nil, providerErr).Once()

		req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message":"hi"}`))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, asUser(req, "user-1"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		body := decodeBody(t, rr)
		assert.NotEmpty(t, body["error"])
		assert.NotContains(t, body, "details")
	})

	t.Run("Failure - provider error exposes details in development", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, true)
		mockChatSvc.On("SendMessage", mock.Anything, "user-1", "", "hi").Return(nil, providerErr).Once()

		req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message":"hi"}`))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, asUser(req, "user-1"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, decodeBody(t, rr)["details"], "quota exhausted")
	})

	t.Run("Failure - reply generated but not saved", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		notSaved := &service.ReplyNotSavedError{Reply: "Check your mirrors.", ConversationID: "conv-1", Err: errors.New("disk full")}
		mockChatSvc.On("SendMessage", mock.Anything, "user-1", "conv-1", "hi").Return(nil, notSaved).Once()

		req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"message":"hi","conversationId":"conv-1"}`))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, asUser(req, "user-1"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, app_errors.ErrReplyNotSaved.Error(), body["error"])
		assert.Equal(t, "Check your mirrors.", body["response"])
		assert.Equal(t, "conv-1", body["conversationId"])
	})
}

// TestChatHandler_Conversations tests the conversation management routes.
func TestChatHandler_Conversations(t *testing.T) {
	t.Run("ListConversations - Success", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		expected := []model.Conversation{{ID: "conv-2", UserID: "user-1", Title: "Parking"}, {ID: "conv-1", UserID: "user-1", Title: "Merging"}}
		mockChatSvc.On("ListConversations", mock.Anything, "user-1").Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/ai/conversations", nil)
		rr := httptest.NewRecorder()
		handler.ListConversations(rr, asUser(req, "user-1"))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []model.Conversation
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, expected, got)
	})

	t.Run("ListConversations - Failure", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		mockChatSvc.On("ListConversations", mock.Anything, "user-1").Return(nil, errors.New("db down")).Once()

		req := httptest.NewRequest(http.MethodGet, "/ai/conversations", nil)
		rr := httptest.NewRecorder()
		handler.ListConversations(rr, asUser(req, "user-1"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("CreateConversation - empty body", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		mockChatSvc.On("CreateConversation", mock.Anything, "user-1", "").
			Return(&model.Conversation{ID: "conv-1", Title: service.DefaultTitle}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/ai/conversations", nil)
		rr := httptest.NewRecorder()
		handler.CreateConversation(rr, asUser(req, "user-1"))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, service.DefaultTitle, decodeBody(t, rr)["title"])
	})

	t.Run("CreateConversation - with title", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		mockChatSvc.On("CreateConversation", mock.Anything, "user-1", "Night driving").
			Return(&model.Conversation{ID: "conv-1", Title: "Night driving"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/ai/conversations", strings.NewReader(`{"title":"Night driving"}`))
		rr := httptest.NewRecorder()
		handler.CreateConversation(rr, asUser(req, "user-1"))

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("GetHistory - passes paging through", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		messages := []model.Message{{ID: "m1", Role: model.RoleUser, Content: "q"}, {ID: "m2", Role: model.RoleModel, Content: "a"}}
		mockChatSvc.On("ListHistory", mock.Anything, "user-1", "conv-1", model.Page{Limit: 2, Skip: 4}).Return(messages, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/ai/conversations/conv-1/history?limit=2&skip=4", nil)
		req = addChiURLParams(asUser(req, "user-1"), map[string]string{"conversationID": "conv-1"})
		rr := httptest.NewRecorder()
		handler.GetHistory(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []model.Message
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, messages, got)
	})

	t.Run("GetHistory - defaults when absent", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		mockChatSvc.On("ListHistory", mock.Anything, "user-1", "conv-1", model.Page{}).Return([]model.Message{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/ai/conversations/conv-1/history", nil)
		req = addChiURLParams(asUser(req, "user-1"), map[string]string{"conversationID": "conv-1"})
		rr := httptest.NewRecorder()
		handler.GetHistory(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	for _, query := range []string{"limit=-1", "skip=-3", "limit=ten"} {
		t.Run("GetHistory - rejects "+query, func(t *testing.T) {
			handler, _ := setupChatHandler(t, false)

			req := httptest.NewRequest(http.MethodGet, "/ai/conversations/conv-1/history?"+query, nil)
			req = addChiURLParams(asUser(req, "user-1"), map[string]string{"conversationID": "conv-1"})
			rr := httptest.NewRecorder()
			handler.GetHistory(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	t.Run("GetHistory - other user's conversation", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		mockChatSvc.On("ListHistory", mock.Anything, "user-2", "conv-1", model.Page{}).Return(nil, app_errors.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/ai/conversations/conv-1/history", nil)
		req = addChiURLParams(asUser(req, "user-2"), map[string]string{"conversationID": "conv-1"})
		rr := httptest.NewRecorder()
		handler.GetHistory(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("RenameConversation - Success", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		mockChatSvc.On("RenameConversation", mock.Anything, "user-1", "conv-1", "Roundabouts").
			Return(&model.Conversation{ID: "conv-1", Title: "Roundabouts"}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/ai/conversations/conv-1", strings.NewReader(`{"title":"Roundabouts"}`))
		req = addChiURLParams(asUser(req, "user-1"), map[string]string{"conversationID": "conv-1"})
		rr := httptest.NewRecorder()
		handler.RenameConversation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Roundabouts", decodeBody(t, rr)["title"])
	})

	t.Run("RenameConversation - missing title", func(t *testing.T) {
		handler, _ := setupChatHandler(t, false)

		req := httptest.NewRequest(http.MethodPut, "/ai/conversations/conv-1", strings.NewReader(`{"title":""}`))
		req = addChiURLParams(asUser(req, "user-1"), map[string]string{"conversationID": "conv-1"})
		rr := httptest.NewRecorder()
		handler.RenameConversation(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("DeleteConversation - Success", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		mockChatSvc.On("DeleteConversation", mock.Anything, "user-1", "conv-1").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/ai/conversations/conv-1", nil)
		req = addChiURLParams(asUser(req, "user-1"), map[string]string{"conversationID": "conv-1"})
		rr := httptest.NewRecorder()
		handler.DeleteConversation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	})

	t.Run("DeleteConversation - Not found", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t, false)
		mockChatSvc.On("DeleteConversation", mock.Anything, "user-1", "missing").Return(app_errors.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/ai/conversations/missing", nil)
		req = addChiURLParams(asUser(req, "user-1"), map[string]string{"conversationID": "missing"})
		rr := httptest.NewRecorder()
		handler.DeleteConversation(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
