package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/repository"
	"roadmate/backend/internal/storage"
)

const (
	profilePhotoFolder   = "profile-photos"
	maxProfilePhotoBytes = 5 << 20
)

// ProfileUpdate holds the fields a user may change; nil fields are left as is.
type ProfileUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *model.Address
	Photo   *Upload
}

type UserService struct {
	users repository.UserRepository
	blobs storage.BlobStore
	now   func() time.Time
}

func NewUserService(users repository.UserRepository, blobs storage.BlobStore) *UserService {
	return &UserService{users: users, blobs: blobs, now: func() time.Time { return time.Now().UTC() }}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", app_errors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the update. The photo is validated before anything is
// stored.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*model.User, error) {
	if update.Photo != nil {
		if err := update.Photo.validateImage(maxProfilePhotoBytes); err != nil {
			return nil, err
		}
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		user.Email = normalizeEmail(*update.Email)
	}
	if update.Phone != nil {
		user.Phone = strings.TrimSpace(*update.Phone)
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.Photo != nil {
		url, err := s.blobs.Put(ctx, profilePhotoFolder, update.Photo.Filename, update.Photo.ContentType, update.Photo.Body)
		if err != nil {
			return nil, fmt.Errorf("could not store profile photo: %w", err)
		}
		user.ProfilePhoto = url
	}
	user.UpdatedAt = s.now()

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if update.Photo != nil {
			if derr := s.blobs.Delete(context.Background(), user.ProfilePhoto); derr != nil {
				slog.Warn("Failed to remove orphaned profile photo", "url", user.ProfilePhoto, "error", derr)
			}
		}
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: email already registered", app_errors.ErrConflict)
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: user %s", app_errors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	slog.Info("Updated profile", "user_id", userID)
	return user, nil
}
