package repository

import (
	"context"
	"time"

	"roadmate/backend/internal/model"
)

// ConversationRepository is the Conversation Store. Two implementations exist
// (SQLite and Redis); both keep a turn's two messages atomic.
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conv *model.Conversation) error
	CreateConversationWithTurn(ctx context.Context, conv *model.Conversation, turn *model.Turn) error
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]model.Conversation, error)
	UpdateConversationTitle(ctx context.Context, conversationID, title string, at time.Time) error
	DeleteConversation(ctx context.Context, conversationID string, at time.Time) error

	AppendTurn(ctx context.Context, userID, conversationID string, turn *model.Turn) error
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]model.Message, error)
	ListMessages(ctx context.Context, conversationID string, skip, limit int) ([]model.Message, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

type ReportRepository interface {
	CreateReport(ctx context.Context, report *model.Report) error
	GetReport(ctx context.Context, reportID string) (*model.Report, error)
	ListReports(ctx context.Context, q model.ForumQuery) ([]model.Report, int, error)
	UpdateReportStatus(ctx context.Context, reportID, status string, at time.Time) error
}
