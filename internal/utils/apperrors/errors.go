package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes failures so the HTTP boundary can map them to a
// status code without inspecting error strings.
type ErrorType string

const (
	TypeValidation         ErrorType = "validation_error"
	TypeNotFound           ErrorType = "not_found_error"
	TypeStoreUnavailable   ErrorType = "store_unavailable"
	TypeBackendError       ErrorType = "backend_error"
	TypeBackendUnavailable ErrorType = "backend_unavailable"
	TypeInternal           ErrorType = "internal_error"
)

// Layer records where in the application an error originated.
type Layer string

const (
	LayerRepository     Layer = "repository"
	LayerDomain         Layer = "domain"
	LayerHandler        Layer = "handler"
	LayerInfrastructure Layer = "infrastructure"
)

// Error is the typed error carried across layer boundaries.
type Error struct {
	Type    ErrorType
	Layer   Layer
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s] %s: %v", e.Layer, e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s] %s", e.Layer, e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error.
func New(layer Layer, errorType ErrorType, message string, err error) *Error {
	return &Error{
		Type:    errorType,
		Layer:   layer,
		Message: message,
		Err:     err,
	}
}

// Wrap adds layer context to err. If err is already a typed error its type is
// preserved, otherwise it becomes an internal error.
func Wrap(layer Layer, err error, message string) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return New(layer, appErr.Type, message, err)
	}
	return New(layer, TypeInternal, message, err)
}

// IsType reports whether err is a typed error of the given type.
func IsType(err error, errorType ErrorType) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// TypeOf returns the error type of err, defaulting to internal for untyped
// errors.
func TypeOf(err error) ErrorType {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// HTTPStatus maps an error to the status code the boundary should answer
// with. Backend failures follow the 502/503 split of the chat contract.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeBackendError:
		return http.StatusBadGateway
	case TypeBackendUnavailable, TypeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
