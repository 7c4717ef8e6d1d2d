package handlers

import (
	"github.com/rs/zerolog"

	"chat-api/internal/domain/chat"
	"chat-api/internal/domain/health"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat         *ChatHandler
	Conversation *ConversationHandler
	Health       *HealthHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(chatService chat.Service, healthService *health.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Chat:         NewChatHandler(chatService, log),
		Conversation: NewConversationHandler(chatService, log),
		Health:       NewHealthHandler(healthService),
	}
}
