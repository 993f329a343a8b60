package domain

import (
	"context"
	"time"
)

// MaxMessageLength is the longest message, in runes, a member may post.
const MaxMessageLength = 100

// Message is the current note a member leaves for their partner.
// swagger:model Message
type Message struct {
	ID             string    `json:"id"`
	CoupleID       string    `json:"couple_id"`
	AuthorID       string    `json:"author_id"`
	AuthorNickname string    `json:"author_nickname,omitempty"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MessageScope selects which side of the history to list.
type MessageScope string

const (
	MessageScopeReceived MessageScope = "received"
	MessageScopeSent     MessageScope = "sent"
)

// MessageRepository defines storage for current messages and their history.
type MessageRepository interface {
	// Upsert stores m as the author's current message, replacing any previous one.
	Upsert(ctx context.Context, m *Message) error
	AppendHistory(ctx context.Context, m *Message) error
	GetCurrentByAuthor(ctx context.Context, coupleID, authorID string) (*Message, error)
	// GetCurrentForRecipient returns the latest current message written by anyone but recipientID.
	GetCurrentForRecipient(ctx context.Context, coupleID, recipientID string) (*Message, error)
	ListHistory(ctx context.Context, coupleID, userID string, scope MessageScope, p PageRequest) ([]*Message, int, error)
}

// MessageService defines couple messaging.
type MessageService interface {
	UpdateMyMessage(ctx context.Context, userID, content string) (*Message, error)
	History(ctx context.Context, userID string, scope MessageScope, p PageRequest) ([]*Message, int, error)
}
