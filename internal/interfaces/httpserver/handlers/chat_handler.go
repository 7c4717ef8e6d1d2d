package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"chat-api/internal/domain/chat"
	"chat-api/internal/utils/apperrors"
)

// ChatHandler exposes the chat completion endpoint.
type ChatHandler struct {
	service chat.Service
	log     zerolog.Logger
}

// NewChatHandler wires dependencies for chat routes.
func NewChatHandler(service chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("component", "chat-handler").Logger(),
	}
}

type chatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

type chatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
	Model          string `json:"model"`
}

// CreateChat handles POST /v1/chat.
func (h *ChatHandler) CreateChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			apperrors.WriteValidationError(c, "message is required")
		} else {
			apperrors.WriteValidationError(c, "invalid request body")
		}
		return
	}

	result, err := h.service.Complete(c.Request.Context(), chat.CompletionRequest{
		Message:        req.Message,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		apperrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		Response:       result.Response,
		ConversationID: result.ConversationID,
		Model:          result.Model,
	})
}
