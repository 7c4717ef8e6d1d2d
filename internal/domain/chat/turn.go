package chat

import (
	"context"
	"time"
)

// Role tags a turn as written by the end user or by the model.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message within a conversation. Turns are immutable once
// persisted; ordering within a conversation is by creation time ascending,
// with the store's row id breaking ties for turns written in the same
// request.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryStore is the persistence port for conversations and turns.
// Implementations return typed errors; deciding whether a failure is fatal
// belongs to the caller.
type HistoryStore interface {
	// EnsureConversation idempotently registers a conversation identity.
	EnsureConversation(ctx context.Context, conversationID string) error
	// LoadRecent returns up to limit most recent turns, oldest first.
	LoadRecent(ctx context.Context, conversationID string, limit int) ([]Turn, error)
	// List returns the full conversation history, oldest first.
	List(ctx context.Context, conversationID string) ([]Turn, error)
	// AppendTurn durably stores one turn.
	AppendTurn(ctx context.Context, conversationID string, role Role, content string) error
	// Ping performs a trivial round trip against the store.
	Ping(ctx context.Context) error
}

// Generator is the inference port. Implementations classify failures as
// backend_error (backend answered with a failure status) or
// backend_unavailable (unreachable or timed out).
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}
