package model

import "time"

// Message roles. There is no system or tool role.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Conversation stores metadata about a chat thread owned by one user.
type Conversation struct {
	ID           string     `json:"_id"`
	UserID       string     `json:"user"`
	Title        string     `json:"title"`
	LastActivity time.Time  `json:"lastActivity"`
	CreatedAt    time.Time  `json:"createdAt"`
	DeletedAt    *time.Time `json:"-"` // Tombstone; never sent to the client.
}

// Live reports whether the conversation has not been deleted.
func (c *Conversation) Live() bool {
	return c.DeletedAt == nil
}

// Message stores a single message in a conversation.
type Message struct {
	ID             string    `json:"_id"`
	ConversationID string    `json:"conversationId"`
	UserID         string    `json:"user"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Turn is one user message and its paired model reply. The two are always
// persisted together.
type Turn struct {
	UserMessage  Message
	ModelMessage Message
}

// HistoryEntry is the client-facing view of a message in a chat reply.
type HistoryEntry struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// ChatReply is the result of one chat turn.
type ChatReply struct {
	Response       string         `json:"response"`
	ConversationID string         `json:"conversationId"`
	History        []HistoryEntry `json:"history"`
}

// Page selects a slice of an ordered list.
type Page struct {
	Limit int
	Skip  int
}
