package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"roadmate/backend/internal/auth"
	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/repository"
	mock_repo "roadmate/backend/internal/repository/mocks"
	"roadmate/backend/internal/service"
)

func setupAuthService(t *testing.T) (*service.AuthService, *mock_repo.MockUserRepository, *auth.TokenIssuer) {
	users := mock_repo.NewMockUserRepository(t)
	tokens := auth.NewTokenIssuer("0123456789abcdef-test-secret", time.Hour)
	return service.NewAuthService(users, tokens, "/uploads/default_profile.png"), users, tokens
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		authService, users, tokens := setupAuthService(t)
		users.On("CreateUser", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "driver@example.com" &&
				u.UserType == model.UserTypeUser &&
				u.ProfilePhoto == "/uploads/default_profile.png" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
		})).Return(nil).Once()

		user, token, err := authService.Register(ctx, service.RegisterInput{
			Name: " Dana ", Email: " Driver@Example.com ", Password: "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, "Dana", user.Name)

		claims, err := tokens.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.ID)
		assert.Equal(t, model.UserTypeUser, claims.UserType)
	})

	t.Run("Failure - duplicate email", func(t *testing.T) {
		authService, users, _ := setupAuthService(t)
		users.On("CreateUser", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()

		_, _, err := authService.Register(ctx, service.RegisterInput{Email: "a@b.c", Password: "secret1"})
		assert.ErrorIs(t, err, app_errors.ErrConflict)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: "user-1", Email: "driver@example.com", PasswordHash: string(hash), UserType: model.UserTypeAdmin}

	t.Run("Success", func(t *testing.T) {
		authService, users, _ := setupAuthService(t)
		users.On("GetUserByEmail", ctx, "driver@example.com").Return(stored, nil).Once()

		user, token, err := authService.Login(ctx, "DRIVER@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)

		claims, err := authService.Authenticate(token)
		require.NoError(t, err)
		assert.Equal(t, model.UserTypeAdmin, claims.UserType)
	})

	t.Run("Failure - wrong password", func(t *testing.T) {
		authService, users, _ := setupAuthService(t)
		users.On("GetUserByEmail", ctx, "driver@example.com").Return(stored, nil).Once()

		_, _, err := authService.Login(ctx, "driver@example.com", "wrong")
		assert.ErrorIs(t, err, app_errors.ErrUnauthorized)
	})

	t.Run("Failure - unknown email looks the same", func(t *testing.T) {
		authService, users, _ := setupAuthService(t)
		users.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrNotFound).Once()

		_, _, err := authService.Login(ctx, "ghost@example.com", "secret1")
		assert.ErrorIs(t, err, app_errors.ErrUnauthorized)
	})

	t.Run("Failure - store error is not an auth failure", func(t *testing.T) {
		authService, users, _ := setupAuthService(t)
		users.On("GetUserByEmail", ctx, "driver@example.com").Return(nil, errors.New("db down")).Once()

		_, _, err := authService.Login(ctx, "driver@example.com", "secret1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, app_errors.ErrUnauthorized)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	authService, _, _ := setupAuthService(t)
	_, err := authService.Authenticate("garbage")
	assert.ErrorIs(t, err, app_errors.ErrUnauthorized)
}
