package apperrors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse is the standard error envelope.
type HTTPErrorResponse struct {
	Error *HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail carries the user facing error fields.
type HTTPErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError logs err and writes it as an HTTP response using the type based
// status mapping. Untyped errors are reported as internal errors without
// leaking their message.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	if err == nil {
		c.JSON(http.StatusInternalServerError, HTTPErrorResponse{
			Error: &HTTPErrorDetail{Message: "unknown error", Type: string(TypeInternal)},
		})
		return
	}

	requestID := c.Writer.Header().Get("X-Request-Id")

	var appErr *Error
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Str("request_id", requestID).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, HTTPErrorResponse{
			Error: &HTTPErrorDetail{
				Message:   "internal server error",
				Type:      string(TypeInternal),
				RequestID: requestID,
			},
		})
		return
	}

	logEvent := log.Error()
	if appErr.Type == TypeValidation || appErr.Type == TypeNotFound {
		logEvent = log.Warn()
	}
	logEvent.
		Err(err).
		Str("error_type", string(appErr.Type)).
		Str("layer", string(appErr.Layer)).
		Str("request_id", requestID).
		Msg(appErr.Message)

	c.JSON(HTTPStatus(appErr), HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   appErr.Message,
			Type:      string(appErr.Type),
			RequestID: requestID,
		},
	})
}

// WriteValidationError writes a 400 response for malformed input.
func WriteValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, HTTPErrorResponse{
		Error: &HTTPErrorDetail{Message: message, Type: string(TypeValidation)},
	})
}
