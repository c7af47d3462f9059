package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/repository"
	mock_repo "roadmate/backend/internal/repository/mocks"
	"roadmate/backend/internal/service"
	mock_storage "roadmate/backend/internal/storage/mocks"
)

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	existing := func() *model.User {
		return &model.User{ID: "user-1", Name: "Dana", Email: "dana@example.com", ProfilePhoto: "/uploads/default_profile.png"}
	}

	t.Run("Success - fields and photo", func(t *testing.T) {
		users := mock_repo.NewMockUserRepository(t)
		blobs := mock_storage.NewMockBlobStore(t)
		userService := service.NewUserService(users, blobs)

		users.On("GetUserByID", ctx, "user-1").Return(existing(), nil).Once()
		blobs.On("Put", ctx, "profile-photos", "me.png", "image/png", mock.Anything).
			Return("/uploads/profile-photos/abc.png", nil).Once()
		users.On("UpdateUser", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Name == "Dana R." && u.Phone == "555-0100" && u.ProfilePhoto == "/uploads/profile-photos/abc.png"
		})).Return(nil).Once()

		name, phone := "Dana R.", " 555-0100 "
		user, err := userService.UpdateProfile(ctx, "user-1", service.ProfileUpdate{
			Name:  &name,
			Phone: &phone,
			Photo: &service.Upload{Filename: "me.png", ContentType: "image/png", Size: 1024, Body: strings.NewReader("png")},
		})
		require.NoError(t, err)
		assert.Equal(t, "dana@example.com", user.Email)
		assert.False(t, user.UpdatedAt.IsZero())
	})

	t.Run("Failure - stored photo is removed when the update fails", func(t *testing.T) {
		users := mock_repo.NewMockUserRepository(t)
		blobs := mock_storage.NewMockBlobStore(t)
		userService := service.NewUserService(users, blobs)

		users.On("GetUserByID", ctx, "user-1").Return(existing(), nil).Once()
		blobs.On("Put", ctx, "profile-photos", "me.png", "image/png", mock.Anything).
			Return("/uploads/profile-photos/abc.png", nil).Once()
		users.On("UpdateUser", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()
		blobs.On("Delete", mock.Anything, "/uploads/profile-photos/abc.png").Return(nil).Once()

		email := "taken@example.com"
		_, err := userService.UpdateProfile(ctx, "user-1", service.ProfileUpdate{
			Email: &email,
			Photo: &service.Upload{Filename: "me.png", ContentType: "image/png", Size: 1024, Body: strings.NewReader("png")},
		})
		assert.ErrorIs(t, err, app_errors.ErrConflict)
	})

	t.Run("Failure - photo too large is rejected before any write", func(t *testing.T) {
		users := mock_repo.NewMockUserRepository(t)
		blobs := mock_storage.NewMockBlobStore(t)
		userService := service.NewUserService(users, blobs)

		_, err := userService.UpdateProfile(ctx, "user-1", service.ProfileUpdate{
			Photo: &service.Upload{Filename: "big.jpg", ContentType: "image/jpeg", Size: 6 << 20, Body: strings.NewReader("")},
		})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Failure - email taken", func(t *testing.T) {
		users := mock_repo.NewMockUserRepository(t)
		userService := service.NewUserService(users, mock_storage.NewMockBlobStore(t))
		users.On("GetUserByID", ctx, "user-1").Return(existing(), nil).Once()
		users.On("UpdateUser", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()

		email := "taken@example.com"
		_, err := userService.UpdateProfile(ctx, "user-1", service.ProfileUpdate{Email: &email})
		assert.ErrorIs(t, err, app_errors.ErrConflict)
	})

	t.Run("Failure - unknown user", func(t *testing.T) {
		users := mock_repo.NewMockUserRepository(t)
		userService := service.NewUserService(users, mock_storage.NewMockBlobStore(t))
		users.On("GetUserByID", ctx, "ghost").Return(nil, repository.ErrNotFound).Once()

		_, err := userService.GetProfile(ctx, "ghost")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})
}
