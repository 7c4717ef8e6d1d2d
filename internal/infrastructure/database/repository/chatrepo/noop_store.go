package chatrepo

import (
	"context"

	"chat-api/internal/domain/chat"
	"chat-api/internal/utils/apperrors"
)

// NoopStore stands in for the history store when no database is available.
// Every operation reports store_unavailable, which keeps the orchestrator
// branch free: the completion path degrades to an empty history and the
// history endpoint fails loudly, exactly as with a real store that is down.
type NoopStore struct{}

var _ chat.HistoryStore = (*NoopStore)(nil)

// NewNoopStore creates the null history store.
func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

func (*NoopStore) EnsureConversation(ctx context.Context, conversationID string) error {
	return errNotConfigured()
}

func (*NoopStore) LoadRecent(ctx context.Context, conversationID string, limit int) ([]chat.Turn, error) {
	return nil, errNotConfigured()
}

func (*NoopStore) List(ctx context.Context, conversationID string) ([]chat.Turn, error) {
	return nil, errNotConfigured()
}

func (*NoopStore) AppendTurn(ctx context.Context, conversationID string, role chat.Role, content string) error {
	return errNotConfigured()
}

func (*NoopStore) Ping(ctx context.Context) error {
	return errNotConfigured()
}

func errNotConfigured() error {
	return apperrors.New(apperrors.LayerRepository, apperrors.TypeStoreUnavailable, "history store not configured", nil)
}
