package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmate/backend/internal/database"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newUser(email string) *model.User {
	return &model.User{
		ID:           uuid.NewString(),
		Name:         "Test Driver",
		Email:        email,
		PasswordHash: "hash",
		UserType:     model.UserTypeUser,
		CreatedAt:    base,
		UpdatedAt:    base,
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - create and read back", func(t *testing.T) {
		repo := repository.NewSQLiteUserRepository(openTestDB(t))
		user := newUser("driver@example.com")
		user.Address = model.Address{City: "Lyon", Country: "FR"}
		require.NoError(t, repo.CreateUser(ctx, user))

		byID, err := repo.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)
		assert.Equal(t, "Lyon", byID.Address.City)
		assert.Equal(t, "hash", byID.PasswordHash)

		byEmail, err := repo.GetUserByEmail(ctx, "driver@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("Failure - duplicate email", func(t *testing.T) {
		repo := repository.NewSQLiteUserRepository(openTestDB(t))
		require.NoError(t, repo.CreateUser(ctx, newUser("dup@example.com")))

		err := repo.CreateUser(ctx, newUser("dup@example.com"))
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("Failure - unknown user", func(t *testing.T) {
		repo := repository.NewSQLiteUserRepository(openTestDB(t))
		_, err := repo.GetUserByID(ctx, "nope")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = repo.GetUserByEmail(ctx, "nope@example.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Update profile", func(t *testing.T) {
		repo := repository.NewSQLiteUserRepository(openTestDB(t))
		user := newUser("update@example.com")
		require.NoError(t, repo.CreateUser(ctx, user))

		user.Name = "Renamed"
		user.Phone = "+33 1 23 45 67 89"
		user.ProfilePhoto = "/uploads/profile-photos/a.png"
		user.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, repo.UpdateUser(ctx, user))

		got, err := repo.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, user.ProfilePhoto, got.ProfilePhoto)
		assert.True(t, got.UpdatedAt.Equal(base.Add(time.Hour)))

		missing := newUser("ghost@example.com")
		assert.ErrorIs(t, repo.UpdateUser(ctx, missing), repository.ErrNotFound)
	})
}
