package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/interfaces"
	"roadmate/backend/internal/llm"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/service"
)

// SendMessageRequest is the body of POST /ai/chat.
type SendMessageRequest struct {
	Message        string `json:"message" validate:"required" example:"What's the speed limit near schools?"`
	ConversationID string `json:"conversationId,omitempty" example:"5f0c7a4e-3c1b-4a57-9b1e-2f7a0e1d9c11"`
}

// CreateConversationRequest is the body of POST /ai/conversations.
type CreateConversationRequest struct {
	Title string `json:"title,omitempty" example:"Highway merging"`
}

// RenameConversationRequest is the DTO for renaming a conversation.
// It includes validation tags to enforce business rules at the API boundary.
type RenameConversationRequest struct {
	Title string `json:"title" validate:"required" example:"My Custom Chat Title"`
}

// ChatHandler serves the /ai routes.
type ChatHandler struct {
	service interfaces.ChatService
	// exposeProviderDetails attaches the provider error to 500 responses.
	exposeProviderDetails bool
}

func NewChatHandler(svc interfaces.ChatService, exposeProviderDetails bool) *ChatHandler {
	return &ChatHandler{service: svc, exposeProviderDetails: exposeProviderDetails}
}

// HandleChat godoc
// @Summary      Send a chat message
// @Description  Runs one chat turn. Without conversationId a new conversation is created.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      SendMessageRequest  true  "Message"
// @Success      200      {object}  model.ChatReply
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Failure      500      {object}  ProviderErrorResponse
// @Router       /ai/chat [post]
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	reply, err := h.service.SendMessage(r.Context(), id.UserID, req.ConversationID, req.Message)
	if err != nil {
		h.respondWithTurnError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reply)
}

// respondWithTurnError handles the two chat-specific failures before falling
// back to the shared mapping.
func (h *ChatHandler) respondWithTurnError(w http.ResponseWriter, err error) {
	var notSaved *service.ReplyNotSavedError
	if errors.As(err, &notSaved) {
		respondWithJSON(w, http.StatusInternalServerError, ReplyNotSavedResponse{
			Error:          app_errors.ErrReplyNotSaved.Error(),
			Response:       notSaved.Reply,
			ConversationID: notSaved.ConversationID,
		})
		return
	}

	if errors.Is(err, app_errors.ErrProvider) {
		body := ProviderErrorResponse{Error: "Failed to get a response from the assistant."}
		if h.exposeProviderDetails {
			var perr *llm.ProviderError
			if errors.As(err, &perr) {
				body.Details = perr.Error()
			} else {
				body.Details = err.Error()
			}
		}
		respondWithJSON(w, http.StatusInternalServerError, body)
		return
	}

	respondWithError(w, err)
}

// ListConversations godoc
// @Summary      List conversations
// @Description  Returns the caller's conversations, most recently active first.
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Conversation
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /ai/conversations [get]
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	conversations, err := h.service.ListConversations(r.Context(), id.UserID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conversations)
}

// CreateConversation godoc
// @Summary      Create a conversation
// @Description  Creates an empty conversation. A missing title becomes "New Chat".
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateConversationRequest  false  "Title"
// @Success      201      {object}  model.Conversation
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Router       /ai/conversations [post]
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateConversationRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, err)
			return
		}
	}

	conv, err := h.service.CreateConversation(r.Context(), id.UserID, req.Title)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, conv)
}

// GetHistory godoc
// @Summary      Conversation history
// @Description  Returns one page of the full transcript, oldest first.
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        conversationID  path      string  true   "Conversation ID"
// @Param        limit           query     int     false  "Page size"
// @Param        skip            query     int     false  "Messages to skip"
// @Success      200             {array}   model.Message
// @Failure      400             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /ai/conversations/{conversationID}/history [get]
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	page, err := parsePage(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	messages, err := h.service.ListHistory(r.Context(), id.UserID, chi.URLParam(r, "conversationID"), page)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messages)
}

// RenameConversation godoc
// @Summary      Rename a conversation
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        conversationID  path      string                     true  "Conversation ID"
// @Param        request         body      RenameConversationRequest  true  "New title"
// @Success      200             {object}  model.Conversation
// @Failure      400             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /ai/conversations/{conversationID} [put]
func (h *ChatHandler) RenameConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req RenameConversationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	conv, err := h.service.RenameConversation(r.Context(), id.UserID, chi.URLParam(r, "conversationID"), req.Title)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conv)
}

// DeleteConversation godoc
// @Summary      Delete a conversation
// @Description  Deletes the conversation and all of its messages. Repeating the call succeeds.
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  SuccessResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /ai/conversations/{conversationID} [delete]
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteConversation(r.Context(), id.UserID, chi.URLParam(r, "conversationID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// parsePage reads limit and skip; absent values are zero.
func parsePage(r *http.Request) (model.Page, error) {
	var page model.Page
	q := r.URL.Query()
	for name, dst := range map[string]*int{"limit": &page.Limit, "skip": &page.Skip} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return model.Page{}, fmt.Errorf("%w: %s must be a non-negative integer", app_errors.ErrValidation, name)
		}
		*dst = n
	}
	return page, nil
}
