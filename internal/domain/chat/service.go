package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chat-api/internal/utils/apperrors"
)

// CompletionRequest is one inbound chat exchange.
type CompletionRequest struct {
	Message        string
	ConversationID string
}

// CompletionResult carries the generated answer together with the resolved
// conversation identity so callers can continue the exchange.
type CompletionResult struct {
	Response       string
	ConversationID string
	Model          string
}

// Service orchestrates one chat exchange end to end.
type Service interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
	History(ctx context.Context, conversationID string) ([]Turn, error)
}

type service struct {
	store        HistoryStore
	generator    Generator
	model        string
	historyLimit int
	log          zerolog.Logger
}

// NewService wires the chat orchestrator with its store and generator ports.
func NewService(store HistoryStore, generator Generator, model string, historyLimit int, log zerolog.Logger) Service {
	return &service{
		store:        store,
		generator:    generator,
		model:        model,
		historyLimit: historyLimit,
		log:          log.With().Str("component", "chat-service").Logger(),
	}
}

// Complete runs the per request pipeline: resolve identity, load history,
// assemble prompt, invoke inference, persist both turns. Persistence is
// strictly best effort; only validation and inference failures abort the
// request, and a failed inference call persists nothing.
func (s *service) Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return CompletionResult{}, apperrors.New(apperrors.LayerDomain, apperrors.TypeValidation, "message must not be empty", nil)
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	} else if _, err := uuid.Parse(conversationID); err != nil {
		return CompletionResult{}, apperrors.New(apperrors.LayerDomain, apperrors.TypeValidation, "conversation_id must be a valid UUID", err)
	}

	// Store failures on this path are deliberately swallowed: the chat
	// capability must keep working with the store down, degrading to an
	// empty history.
	if err := s.store.EnsureConversation(ctx, conversationID); err != nil {
		s.log.Warn().Err(err).Str("conversation_id", conversationID).Msg("ensure conversation failed, continuing")
	}

	history, err := s.store.LoadRecent(ctx, conversationID, s.historyLimit)
	if err != nil {
		s.log.Warn().Err(err).Str("conversation_id", conversationID).Msg("load history failed, continuing with empty history")
		history = nil
	}

	prompt := BuildPrompt(history, req.Message)

	answer, err := s.generator.Generate(ctx, s.model, prompt)
	if err != nil {
		return CompletionResult{}, err
	}

	// Append the user turn before the assistant turn so insertion order
	// matches the exchange. Each write fails independently without
	// affecting the response.
	if err := s.store.AppendTurn(ctx, conversationID, RoleUser, req.Message); err != nil {
		s.log.Warn().Err(err).Str("conversation_id", conversationID).Msg("persist user turn failed")
	}
	if err := s.store.AppendTurn(ctx, conversationID, RoleAssistant, answer); err != nil {
		s.log.Warn().Err(err).Str("conversation_id", conversationID).Msg("persist assistant turn failed")
	}

	return CompletionResult{
		Response:       answer,
		ConversationID: conversationID,
		Model:          s.model,
	}, nil
}

// History returns the full persisted history of a conversation, oldest
// first. Unlike the completion path, store failures surface here: an empty
// result would be indistinguishable from a conversation with no messages.
func (s *service) History(ctx context.Context, conversationID string) ([]Turn, error) {
	if _, err := uuid.Parse(conversationID); err != nil {
		return nil, apperrors.New(apperrors.LayerDomain, apperrors.TypeValidation, "conversation id must be a valid UUID", err)
	}
	return s.store.List(ctx, conversationID)
}
