package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"roadmate/backend/internal/model"
)

// maxTxRetries bounds optimistic-lock retries when a watched conversation key
// changes between read and EXEC.
const maxTxRetries = 5

type redisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) ConversationRepository {
	return &redisRepository{rdb: rdb}
}

// Key Generation Helpers
func (r *redisRepository) conversationKey(id string) string { return fmt.Sprintf("conversation:%s", id) }
func (r *redisRepository) messagesKey(id string) string     { return fmt.Sprintf("conversation:%s:messages", id) }
func (r *redisRepository) seqKey(id string) string          { return fmt.Sprintf("conversation:%s:seq", id) }
func (r *redisRepository) messageKey(id string) string      { return fmt.Sprintf("message:%s", id) }
func (r *redisRepository) userConversationsKey(userID string) string {
	return fmt.Sprintf("user:%s:conversations", userID)
}

// --- Conversation Operations ---

func (r *redisRepository) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		r.queueConversation(ctx, pipe, conv)
		return nil
	})
	return err
}

func (r *redisRepository) CreateConversationWithTurn(ctx context.Context, conv *model.Conversation, turn *model.Turn) error {
	seq, err := r.rdb.IncrBy(ctx, r.seqKey(conv.ID), 2).Result()
	if err != nil {
		return fmt.Errorf("could not allocate message sequence: %w", err)
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		r.queueConversation(ctx, pipe, conv)
		r.queueTurn(ctx, pipe, conv.ID, turn, seq)
		return nil
	})
	return err
}

func (r *redisRepository) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	fields, err := r.rdb.HGetAll(ctx, r.conversationKey(conversationID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return conversationFromHash(fields)
}

func (r *redisRepository) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	ids, err := r.rdb.ZRange(ctx, r.userConversationsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	cmds, err := r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.HGetAll(ctx, r.conversationKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	conversations := make([]model.Conversation, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.(*redis.MapStringStringCmd).Val()
		if len(fields) == 0 {
			continue
		}
		conv, err := conversationFromHash(fields)
		if err != nil {
			return nil, err
		}
		if conv.Live() {
			conversations = append(conversations, *conv)
		}
	}
	return conversations, nil
}

func (r *redisRepository) UpdateConversationTitle(ctx context.Context, conversationID, title string, at time.Time) error {
	key := r.conversationKey(conversationID)
	return r.watch(ctx, func(tx *redis.Tx) error {
		conv, err := r.liveConversation(ctx, tx, conversationID)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "title", title, "last_activity", formatTime(at))
			pipe.ZAdd(ctx, r.userConversationsKey(conv.UserID), activityScore(conversationID, at))
			return nil
		})
		return err
	}, key)
}

// DeleteConversation removes all message records, keeps the conversation hash
// as a tombstone and drops it from the owner's index. It is repeatable.
func (r *redisRepository) DeleteConversation(ctx context.Context, conversationID string, at time.Time) error {
	key := r.conversationKey(conversationID)
	return r.watch(ctx, func(tx *redis.Tx) error {
		userID, err := tx.HGet(ctx, key, "user_id").Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return err
		}

		msgIDs, err := tx.ZRange(ctx, r.messagesKey(conversationID), 0, -1).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("could not get message IDs for deletion: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(msgIDs) > 0 {
				messageKeys := make([]string, len(msgIDs))
				for i, id := range msgIDs {
					messageKeys[i] = r.messageKey(id)
				}
				pipe.Del(ctx, messageKeys...)
			}
			pipe.Del(ctx, r.messagesKey(conversationID), r.seqKey(conversationID))
			pipe.HSetNX(ctx, key, "deleted_at", formatTime(at))
			pipe.ZRem(ctx, r.userConversationsKey(userID), conversationID)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to execute conversation deletion pipeline: %w", err)
		}
		return nil
	}, key)
}

// --- Message Operations ---

// AppendTurn watches the conversation hash so that a concurrent delete or
// rename aborts the transaction instead of leaving orphaned messages.
func (r *redisRepository) AppendTurn(ctx context.Context, userID, conversationID string, turn *model.Turn) error {
	key := r.conversationKey(conversationID)
	return r.watch(ctx, func(tx *redis.Tx) error {
		conv, err := r.liveConversation(ctx, tx, conversationID)
		if err != nil {
			return err
		}
		if conv.UserID != userID {
			return ErrNotFound
		}

		seq, err := tx.IncrBy(ctx, r.seqKey(conversationID), 2).Result()
		if err != nil {
			return fmt.Errorf("could not allocate message sequence: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			r.queueTurn(ctx, pipe, conversationID, turn, seq)
			at := turn.ModelMessage.CreatedAt
			pipe.HSet(ctx, key, "last_activity", formatTime(at))
			pipe.ZAdd(ctx, r.userConversationsKey(userID), activityScore(conversationID, at))
			return nil
		})
		return err
	}, key)
}

func (r *redisRepository) RecentMessages(ctx context.Context, conversationID string, limit int) ([]model.Message, error) {
	if limit <= 0 {
		return []model.Message{}, nil
	}
	ids, err := r.rdb.ZRevRange(ctx, r.messagesKey(conversationID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	return r.loadMessages(ctx, ids)
}

func (r *redisRepository) ListMessages(ctx context.Context, conversationID string, skip, limit int) ([]model.Message, error) {
	if limit <= 0 {
		return []model.Message{}, nil
	}
	start := int64(skip)
	ids, err := r.rdb.ZRange(ctx, r.messagesKey(conversationID), start, start+int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	return r.loadMessages(ctx, ids)
}

// --- Helper Functions ---

func (r *redisRepository) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.rdb.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return redis.TxFailedErr
}

func (r *redisRepository) liveConversation(ctx context.Context, tx *redis.Tx, conversationID string) (*model.Conversation, error) {
	fields, err := tx.HGetAll(ctx, r.conversationKey(conversationID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	conv, err := conversationFromHash(fields)
	if err != nil {
		return nil, err
	}
	if !conv.Live() {
		return nil, ErrNotFound
	}
	return conv, nil
}

func (r *redisRepository) queueConversation(ctx context.Context, pipe redis.Pipeliner, conv *model.Conversation) {
	pipe.HSet(ctx, r.conversationKey(conv.ID), map[string]any{
		"id":            conv.ID,
		"user_id":       conv.UserID,
		"title":         conv.Title,
		"last_activity": formatTime(conv.LastActivity),
		"created_at":    formatTime(conv.CreatedAt),
	})
	pipe.ZAdd(ctx, r.userConversationsKey(conv.UserID), activityScore(conv.ID, conv.LastActivity))
}

// queueTurn scores the user message seq-1 and the model message seq, where seq
// was allocated with INCRBY 2, so the pair stays adjacent and ordered.
func (r *redisRepository) queueTurn(ctx context.Context, pipe redis.Pipeliner, conversationID string, turn *model.Turn, seq int64) {
	for i, msg := range []*model.Message{&turn.UserMessage, &turn.ModelMessage} {
		pipe.HSet(ctx, r.messageKey(msg.ID), map[string]any{
			"id":              msg.ID,
			"conversation_id": msg.ConversationID,
			"user_id":         msg.UserID,
			"role":            msg.Role,
			"content":         msg.Content,
			"created_at":      formatTime(msg.CreatedAt),
		})
		pipe.ZAdd(ctx, r.messagesKey(conversationID), redis.Z{
			Score:  float64(seq - 1 + int64(i)),
			Member: msg.ID,
		})
	}
}

func (r *redisRepository) loadMessages(ctx context.Context, ids []string) ([]model.Message, error) {
	if len(ids) == 0 {
		return []model.Message{}, nil
	}
	cmds, err := r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.HGetAll(ctx, r.messageKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]model.Message, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.(*redis.MapStringStringCmd).Val()
		if len(fields) == 0 {
			continue
		}
		msg, err := messageFromHash(fields)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, nil
}

// activityScore orders a user's conversations newest first under ZRANGE.
func activityScore(conversationID string, at time.Time) redis.Z {
	return redis.Z{Score: float64(-at.UnixMicro()), Member: conversationID}
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func conversationFromHash(fields map[string]string) (*model.Conversation, error) {
	conv := &model.Conversation{
		ID:     fields["id"],
		UserID: fields["user_id"],
		Title:  fields["title"],
	}
	var err error
	if conv.LastActivity, err = time.Parse(time.RFC3339Nano, fields["last_activity"]); err != nil {
		return nil, fmt.Errorf("could not parse last_activity: %w", err)
	}
	if conv.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["created_at"]); err != nil {
		return nil, fmt.Errorf("could not parse created_at: %w", err)
	}
	if raw, ok := fields["deleted_at"]; ok && raw != "" {
		deletedAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("could not parse deleted_at: %w", err)
		}
		conv.DeletedAt = &deletedAt
	}
	return conv, nil
}

func messageFromHash(fields map[string]string) (*model.Message, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("could not parse created_at: %w", err)
	}
	return &model.Message{
		ID:             fields["id"],
		ConversationID: fields["conversation_id"],
		UserID:         fields["user_id"],
		Role:           fields["role"],
		Content:        fields["content"],
		CreatedAt:      createdAt,
	}, nil
}
