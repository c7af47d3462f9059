package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/llm"
	"roadmate/backend/internal/lock"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/repository"
)

const (
	// DefaultTitle is used when no title can be derived or none was given.
	DefaultTitle = "New Chat"

	derivedTitleLen = 30
	maxTitleLen     = 100
)

// ChatConfig holds the tunables of the chat turn.
type ChatConfig struct {
	// ContextTurns is N: the number of most recent turns sent to the provider.
	// The client-visible history is capped at 2N entries.
	ContextTurns    int
	DefaultPageSize int
	MaxPageSize     int
	// TurnTimeout bounds the provider call and the write that follows it.
	// Zero means no bound.
	TurnTimeout time.Duration
}

// ReplyNotSavedError is returned when the provider answered but the turn could
// not be persisted. It matches app_errors.ErrReplyNotSaved.
type ReplyNotSavedError struct {
	Reply          string
	ConversationID string
	Err            error
}

func (e *ReplyNotSavedError) Error() string {
	return fmt.Sprintf("%s: %v", app_errors.ErrReplyNotSaved, e.Err)
}

func (e *ReplyNotSavedError) Unwrap() error { return e.Err }

func (e *ReplyNotSavedError) Is(target error) bool { return target == app_errors.ErrReplyNotSaved }

// ChatService assembles chat turns: it resolves the conversation, builds the
// bounded context window, calls the completion provider and persists the turn.
type ChatService struct {
	repo     repository.ConversationRepository
	provider llm.CompletionProvider
	locker   lock.Locker
	cfg      ChatConfig

	now   func() time.Time
	newID func() string
}

func NewChatService(repo repository.ConversationRepository, provider llm.CompletionProvider, locker lock.Locker, cfg ChatConfig) *ChatService {
	return &ChatService{
		repo:     repo,
		provider: provider,
		locker:   locker,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// SendMessage runs one chat turn. Without a conversationID a new conversation
// is created together with the turn, so a failed provider call leaves nothing
// behind.
func (s *ChatService) SendMessage(ctx context.Context, userID, conversationID, message string) (*model.ChatReply, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: message must not be empty", app_errors.ErrValidation)
	}

	var conv *model.Conversation
	var window []model.Message

	if conversationID == "" {
		conv = &model.Conversation{
			ID:     s.newID(),
			UserID: userID,
			Title:  DeriveTitle(trimmed),
		}
	} else {
		var err error
		if conv, err = s.ownedConversation(ctx, userID, conversationID); err != nil {
			return nil, err
		}

		unlock, err := s.acquire(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		defer unlock()

		if window, err = s.contextWindow(ctx, conv.ID); err != nil {
			return nil, err
		}
	}

	// Once the provider is called the turn runs to completion even if the
	// client goes away; TurnTimeout is the only bound.
	turnCtx, cancel := s.turnContext(ctx)
	defer cancel()

	reply, err := s.provider.Complete(turnCtx, toTurns(window), message)
	if err != nil {
		slog.Warn("Completion provider failed", "conversation_id", conversationID, "error", err)
		return nil, fmt.Errorf("%w: %w", app_errors.ErrProvider, err)
	}

	at := s.now()
	if at.Before(conv.LastActivity) {
		at = conv.LastActivity
	}
	turn := s.newTurn(conv, message, reply, at)

	if conversationID == "" {
		conv.CreatedAt = at
		conv.LastActivity = at
		err = s.repo.CreateConversationWithTurn(turnCtx, conv, turn)
	} else {
		err = s.repo.AppendTurn(turnCtx, userID, conv.ID, turn)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: conversation %s was deleted during the turn", app_errors.ErrNotFound, conv.ID)
		}
		slog.Error("Failed to persist chat turn", "conversation_id", conv.ID, "error", err)
		notSaved := &ReplyNotSavedError{Reply: reply, Err: err}
		if conversationID != "" {
			notSaved.ConversationID = conv.ID
		}
		return nil, notSaved
	}

	if conversationID == "" {
		slog.Info("Created conversation", "conversation_id", conv.ID, "user_id", userID)
	}

	return &model.ChatReply{
		Response:       reply,
		ConversationID: conv.ID,
		History:        s.replyHistory(window, turn),
	}, nil
}

// CreateConversation creates an empty conversation. A blank title becomes
// DefaultTitle.
func (s *ChatService) CreateConversation(ctx context.Context, userID, title string) (*model.Conversation, error) {
	title = capTitle(strings.TrimSpace(title))
	if title == "" {
		title = DefaultTitle
	}
	now := s.now()
	conv := &model.Conversation{
		ID:           s.newID(),
		UserID:       userID,
		Title:        title,
		LastActivity: now,
		CreatedAt:    now,
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("could not create conversation: %w", err)
	}
	return conv, nil
}

// ListConversations returns the user's conversations, most recently active first.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	conversations, err := s.repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not list conversations: %w", err)
	}
	return conversations, nil
}

// ListHistory returns one page of the full transcript, oldest first. A zero
// limit selects the default page size; larger limits are clamped.
func (s *ChatService) ListHistory(ctx context.Context, userID, conversationID string, page model.Page) ([]model.Message, error) {
	if page.Limit < 0 || page.Skip < 0 {
		return nil, fmt.Errorf("%w: limit and skip must not be negative", app_errors.ErrValidation)
	}
	if page.Limit == 0 {
		page.Limit = s.cfg.DefaultPageSize
	}
	if page.Limit > s.cfg.MaxPageSize {
		page.Limit = s.cfg.MaxPageSize
	}

	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, conversationID, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("could not list messages: %w", err)
	}
	return messages, nil
}

// RenameConversation sets a new title and bumps lastActivity.
func (s *ChatService) RenameConversation(ctx context.Context, userID, conversationID, title string) (*model.Conversation, error) {
	title = capTitle(strings.TrimSpace(title))
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", app_errors.ErrValidation)
	}

	conv, err := s.ownedConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.acquire(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	at := s.now()
	if at.Before(conv.LastActivity) {
		at = conv.LastActivity
	}
	if err := s.repo.UpdateConversationTitle(ctx, conv.ID, title, at); err != nil {
		return nil, s.storeError(err, "could not rename conversation")
	}

	slog.Info("Renamed conversation", "conversation_id", conv.ID)
	conv.Title = title
	conv.LastActivity = at
	return conv, nil
}

// DeleteConversation removes the conversation and all of its messages. Deleting
// an already deleted conversation succeeds and repeats the message cleanup.
func (s *ChatService) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return s.storeError(err, "could not get conversation")
	}
	if conv.UserID != userID {
		return fmt.Errorf("%w: conversation %s", app_errors.ErrNotFound, conversationID)
	}

	unlock, err := s.acquire(ctx, conv.ID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.repo.DeleteConversation(ctx, conv.ID, s.now()); err != nil {
		return s.storeError(err, "could not delete conversation")
	}
	slog.Info("Deleted conversation", "conversation_id", conv.ID)
	return nil
}

// DeriveTitle takes the first 30 characters of message. When the cut lands
// inside a word the partial word is dropped, keeping the trailing space.
func DeriveTitle(message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return DefaultTitle
	}
	if utf8.RuneCountInString(message) <= derivedTitleLen {
		return message
	}

	runes := []rune(message)
	title := string(runes[:derivedTitleLen])
	if runes[derivedTitleLen] != ' ' {
		if i := strings.LastIndex(title, " "); i > 0 {
			title = title[:i+1]
		}
	}
	return title
}

// ownedConversation hides other users' and deleted conversations behind
// NotFound so that their existence never leaks.
func (s *ChatService) ownedConversation(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, s.storeError(err, "could not get conversation")
	}
	if conv.UserID != userID || !conv.Live() {
		return nil, fmt.Errorf("%w: conversation %s", app_errors.ErrNotFound, conversationID)
	}
	return conv, nil
}

func (s *ChatService) acquire(ctx context.Context, conversationID string) (func(), error) {
	unlock, err := s.locker.Lock(ctx, conversationID)
	if err != nil {
		if errors.Is(err, lock.ErrTimeout) {
			return nil, fmt.Errorf("%w: conversation is busy", app_errors.ErrConflict)
		}
		return nil, fmt.Errorf("could not lock conversation: %w", err)
	}
	return unlock, nil
}

// contextWindow loads the newest 2N messages and returns them oldest first.
func (s *ChatService) contextWindow(ctx context.Context, conversationID string) ([]model.Message, error) {
	recent, err := s.repo.RecentMessages(ctx, conversationID, 2*s.cfg.ContextTurns)
	if err != nil {
		return nil, fmt.Errorf("could not load recent messages: %w", err)
	}
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

func (s *ChatService) turnContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if s.cfg.TurnTimeout > 0 {
		return context.WithTimeout(detached, s.cfg.TurnTimeout)
	}
	return context.WithCancel(detached)
}

func (s *ChatService) newTurn(conv *model.Conversation, message, reply string, at time.Time) *model.Turn {
	return &model.Turn{
		UserMessage: model.Message{
			ID:             s.newID(),
			ConversationID: conv.ID,
			UserID:         conv.UserID,
			Role:           model.RoleUser,
			Content:        message,
			CreatedAt:      at,
		},
		ModelMessage: model.Message{
			ID:             s.newID(),
			ConversationID: conv.ID,
			UserID:         conv.UserID,
			Role:           model.RoleModel,
			Content:        reply,
			CreatedAt:      at,
		},
	}
}

// replyHistory is the window plus the new turn, trimmed to the newest 2N
// entries.
func (s *ChatService) replyHistory(window []model.Message, turn *model.Turn) []model.HistoryEntry {
	all := make([]model.HistoryEntry, 0, len(window)+2)
	for _, m := range window {
		all = append(all, model.HistoryEntry{Content: m.Content, Role: m.Role})
	}
	all = append(all,
		model.HistoryEntry{Content: turn.UserMessage.Content, Role: turn.UserMessage.Role},
		model.HistoryEntry{Content: turn.ModelMessage.Content, Role: turn.ModelMessage.Role},
	)
	if limit := 2 * s.cfg.ContextTurns; len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all
}

func (s *ChatService) storeError(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", app_errors.ErrNotFound, msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func toTurns(messages []model.Message) []llm.Turn {
	turns := make([]llm.Turn, len(messages))
	for i, m := range messages {
		turns[i] = llm.Turn{Role: m.Role, Text: m.Content}
	}
	return turns
}

func capTitle(title string) string {
	if utf8.RuneCountInString(title) <= maxTitleLen {
		return title
	}
	return strings.TrimSpace(string([]rune(title)[:maxTitleLen]))
}
