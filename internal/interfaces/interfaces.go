package interfaces

import (
	"context"

	"roadmate/backend/internal/auth"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/service"
)

// This file defines the interfaces for our core services.
// The API layer depends on these interfaces instead of concrete implementations,
// which keeps handlers decoupled from the service layer and easy to mock.

// ChatService defines the contract for the chat turn and conversation management.
type ChatService interface {
	SendMessage(ctx context.Context, userID, conversationID, message string) (*model.ChatReply, error)
	CreateConversation(ctx context.Context, userID, title string) (*model.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]model.Conversation, error)
	ListHistory(ctx context.Context, userID, conversationID string, page model.Page) ([]model.Message, error)
	RenameConversation(ctx context.Context, userID, conversationID, title string) (*model.Conversation, error)
	DeleteConversation(ctx context.Context, userID, conversationID string) error
}

// AuthService defines the contract for registration, login and token checks.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Authenticate(token string) (*auth.Claims, error)
}

// UserService defines the contract for profile reads and updates.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, update service.ProfileUpdate) (*model.User, error)
}

// ReportService defines the contract for anonymous reports and the forum.
type ReportService interface {
	SubmitReport(ctx context.Context, description, location string, photos []service.Upload) (*model.Report, error)
	Forum(ctx context.Context, q model.ForumQuery) (*model.ForumPage, error)
	UpdateStatus(ctx context.Context, reportID, status string) (*model.Report, error)
}

var (
	_ ChatService   = (*service.ChatService)(nil)
	_ AuthService   = (*service.AuthService)(nil)
	_ UserService   = (*service.UserService)(nil)
	_ ReportService = (*service.ReportService)(nil)
)
