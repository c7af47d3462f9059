package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roadmate/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) ConversationRepository {
	return &sqliteRepository{db: db}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *sqliteRepository) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	return insertConversation(ctx, r.db, conv)
}

func (r *sqliteRepository) CreateConversationWithTurn(ctx context.Context, conv *model.Conversation, turn *model.Turn) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertConversation(ctx, tx, conv); err != nil {
		return err
	}
	if err := insertTurn(ctx, tx, turn); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sqliteRepository) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	query := "SELECT id, user_id, title, last_activity, created_at, deleted_at FROM conversations WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, conversationID)

	var conv model.Conversation
	var deletedAt sql.NullTime
	err := row.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.LastActivity, &conv.CreatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if deletedAt.Valid {
		conv.DeletedAt = &deletedAt.Time
	}
	return &conv, nil
}

func (r *sqliteRepository) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	query := `
		SELECT id, user_id, title, last_activity, created_at
		FROM conversations
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY last_activity DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := []model.Conversation{}
	for rows.Next() {
		var conv model.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.LastActivity, &conv.CreatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

func (r *sqliteRepository) UpdateConversationTitle(ctx context.Context, conversationID, title string, at time.Time) error {
	query := "UPDATE conversations SET title = ?, last_activity = ? WHERE id = ? AND deleted_at IS NULL"
	res, err := r.db.ExecContext(ctx, query, title, at.UTC(), conversationID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// DeleteConversation removes every message of the conversation and leaves a
// tombstone behind, in one transaction. Running it again on a tombstoned
// conversation repeats the message cascade and keeps the original tombstone.
func (r *sqliteRepository) DeleteConversation(ctx context.Context, conversationID string, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE conversation_id = ?", conversationID); err != nil {
		return fmt.Errorf("could not delete messages: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE conversations SET deleted_at = COALESCE(deleted_at, ?) WHERE id = ?",
		at.UTC(), conversationID,
	)
	if err != nil {
		return fmt.Errorf("could not tombstone conversation: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}

// AppendTurn writes both messages of a turn and bumps lastActivity in one
// transaction. The guarded UPDATE runs first so that a turn can never land in
// a conversation that is deleted or owned by someone else.
func (r *sqliteRepository) AppendTurn(ctx context.Context, userID, conversationID string, turn *model.Turn) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE conversations SET last_activity = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL",
		turn.ModelMessage.CreatedAt.UTC(), conversationID, userID,
	)
	if err != nil {
		return fmt.Errorf("could not update conversation activity: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	if err := insertTurn(ctx, tx, turn); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sqliteRepository) RecentMessages(ctx context.Context, conversationID string, limit int) ([]model.Message, error) {
	query := `
		SELECT id, conversation_id, user_id, role, content, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at DESC, seq DESC
		LIMIT ?
	`
	return r.queryMessages(ctx, query, conversationID, limit)
}

func (r *sqliteRepository) ListMessages(ctx context.Context, conversationID string, skip, limit int) ([]model.Message, error) {
	query := `
		SELECT id, conversation_id, user_id, role, content, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, seq ASC
		LIMIT ? OFFSET ?
	`
	return r.queryMessages(ctx, query, conversationID, limit, skip)
}

func (r *sqliteRepository) queryMessages(ctx context.Context, query string, args ...any) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.UserID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func insertConversation(ctx context.Context, db execer, conv *model.Conversation) error {
	query := "INSERT INTO conversations (id, user_id, title, last_activity, created_at) VALUES (?, ?, ?, ?, ?)"
	_, err := db.ExecContext(ctx, query, conv.ID, conv.UserID, conv.Title, conv.LastActivity.UTC(), conv.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("could not insert conversation: %w", err)
	}
	return nil
}

// insertTurn inserts the user message before the model message; seq order is
// what breaks createdAt ties.
func insertTurn(ctx context.Context, db execer, turn *model.Turn) error {
	query := `
		INSERT INTO messages (id, conversation_id, user_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, msg := range []*model.Message{&turn.UserMessage, &turn.ModelMessage} {
		_, err := db.ExecContext(ctx, query,
			msg.ID,
			msg.ConversationID,
			msg.UserID,
			msg.Role,
			msg.Content,
			msg.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("could not insert %s message: %w", msg.Role, err)
		}
	}
	return nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
