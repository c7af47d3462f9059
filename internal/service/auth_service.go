package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"roadmate/backend/internal/auth"
	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/repository"
)

// RegisterInput carries a new account's details.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  model.Address
}

type AuthService struct {
	users        repository.UserRepository
	tokens       *auth.TokenIssuer
	defaultPhoto string
	now          func() time.Time
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer, defaultPhoto string) *AuthService {
	return &AuthService{
		users:        users,
		tokens:       tokens,
		defaultPhoto: defaultPhoto,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a regular user account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("could not hash password: %w", err)
	}

	now := s.now()
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
		UserType:     model.UserTypeUser,
		ProfilePhoto: s.defaultPhoto,
		Address:      in.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", fmt.Errorf("%w: email already registered", app_errors.ErrConflict)
		}
		return nil, "", fmt.Errorf("could not create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.UserType)
	if err != nil {
		return nil, "", err
	}
	slog.Info("Registered user", "user_id", user.ID)
	return user, token, nil
}

// Login checks the credentials. Unknown emails and wrong passwords are
// reported identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", app_errors.ErrUnauthorized)
		}
		return nil, "", fmt.Errorf("could not get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", app_errors.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user.ID, user.UserType)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its claims.
func (s *AuthService) Authenticate(token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrUnauthorized, err)
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
