package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"roadmate/backend/internal/model"
)

const userColumns = `id, name, email, password_hash, user_type, profile_photo, phone,
	street, city, state, postal_code, country, created_at, updated_at`

type sqliteUserRepository struct {
	db *sql.DB
}

func NewSQLiteUserRepository(db *sql.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

func (r *sqliteUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.UserType, user.ProfilePhoto, user.Phone,
		user.Address.Street, user.Address.City, user.Address.State, user.Address.PostalCode, user.Address.Country,
		user.CreatedAt.UTC(), user.UpdatedAt.UTC(),
	)
	if err != nil {
		return translateConstraint(err)
	}
	return nil
}

func (r *sqliteUserRepository) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", userID)
	return scanUser(row)
}

func (r *sqliteUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

func (r *sqliteUserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET name = ?, email = ?, profile_photo = ?, phone = ?,
			street = ?, city = ?, state = ?, postal_code = ?, country = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		user.Name, user.Email, user.ProfilePhoto, user.Phone,
		user.Address.Street, user.Address.City, user.Address.State, user.Address.PostalCode, user.Address.Country,
		user.UpdatedAt.UTC(), user.ID,
	)
	if err != nil {
		return translateConstraint(err)
	}
	return expectAffected(res)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.UserType, &u.ProfilePhoto, &u.Phone,
		&u.Address.Street, &u.Address.City, &u.Address.State, &u.Address.PostalCode, &u.Address.Country,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func translateConstraint(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
