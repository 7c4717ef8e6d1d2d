package chatrepo

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chat-api/internal/domain/chat"
	"chat-api/internal/infrastructure/database/entities"
	"chat-api/internal/infrastructure/metrics"
	"chat-api/internal/utils/apperrors"
)

// PostgresStore persists conversations and turns via PostgreSQL using GORM.
type PostgresStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

var _ chat.HistoryStore = (*PostgresStore)(nil)

// NewPostgresStore creates a history store backed by the provided DB.
func NewPostgresStore(db *gorm.DB, log zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		db:  db,
		log: log.With().Str("component", "chat-store").Logger(),
	}
}

// EnsureConversation registers a conversation identity, a no-op if it
// already exists.
func (s *PostgresStore) EnsureConversation(ctx context.Context, conversationID string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entities.Conversation{ID: conversationID}).Error
	if err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("ensure_conversation").Inc()
		return apperrors.New(apperrors.LayerRepository, apperrors.TypeStoreUnavailable, "failed to ensure conversation", err)
	}
	return nil
}

// LoadRecent returns up to limit most recent turns oldest first. The query
// fetches newest first for bounding, then the rows are reversed into
// presentation order.
func (s *PostgresStore) LoadRecent(ctx context.Context, conversationID string, limit int) ([]chat.Turn, error) {
	if limit <= 0 {
		return nil, nil
	}

	var rows []entities.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("load_recent").Inc()
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.TypeStoreUnavailable, "failed to load recent turns", err)
	}

	return toTurnsReversed(rows), nil
}

// List returns the full history of a conversation oldest first.
func (s *PostgresStore) List(ctx context.Context, conversationID string) ([]chat.Turn, error) {
	var rows []entities.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("list").Inc()
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.TypeStoreUnavailable, "failed to list conversation turns", err)
	}

	turns := make([]chat.Turn, 0, len(rows))
	for _, row := range rows {
		turns = append(turns, toTurn(row))
	}
	return turns, nil
}

// AppendTurn durably stores one turn. The creation timestamp is assigned by
// the store.
func (s *PostgresStore) AppendTurn(ctx context.Context, conversationID string, role chat.Role, content string) error {
	record := entities.Message{
		ConversationID: conversationID,
		Role:           string(role),
		Content:        content,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("append_turn").Inc()
		return apperrors.New(apperrors.LayerRepository, apperrors.TypeStoreUnavailable, "failed to append turn", err)
	}
	metrics.TurnsPersistedTotal.WithLabelValues(string(role)).Inc()
	return nil
}

// Ping executes a trivial round trip query against the store.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.TypeStoreUnavailable, "store ping failed", err)
	}
	return nil
}

// toTurnsReversed flips rows fetched newest first into presentation order,
// oldest first.
func toTurnsReversed(rows []entities.Message) []chat.Turn {
	turns := make([]chat.Turn, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		turns = append(turns, toTurn(rows[i]))
	}
	return turns
}

func toTurn(row entities.Message) chat.Turn {
	return chat.Turn{
		Role:      chat.Role(row.Role),
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
	}
}
