package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-api/internal/domain/chat"
	"chat-api/internal/utils/apperrors"
)

// ConversationHandler exposes conversation history retrieval.
type ConversationHandler struct {
	service chat.Service
	log     zerolog.Logger
}

// NewConversationHandler wires dependencies for conversation routes.
func NewConversationHandler(service chat.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("component", "conversation-handler").Logger(),
	}
}

type messageResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// GetMessages handles GET /v1/conversations/:id/messages. An unavailable
// store answers 503 rather than an empty list, which would be ambiguous with
// a conversation that has no messages yet.
func (h *ConversationHandler) GetMessages(c *gin.Context) {
	turns, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.WriteError(c, err, h.log)
		return
	}

	messages := make([]messageResponse, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, messageResponse{
			Role:      string(turn.Role),
			Content:   turn.Content,
			CreatedAt: turn.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	c.JSON(http.StatusOK, messages)
}
