package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind classifies failures surfaced to API callers.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindConflict          ErrorKind = "conflict"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindForbidden         ErrorKind = "forbidden"
	KindInvalidStatus     ErrorKind = "invalid_status"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindRateLimited       ErrorKind = "rate_limited"
	KindInternal          ErrorKind = "internal"
)

// HTTPStatus maps the kind onto a response code.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation, KindInvalidStatus:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidTransition:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// AppError is an error whose message is safe to show to the caller.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(message string, fields ...string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

func NewNotFoundError(entity string) *AppError {
	return &AppError{Kind: KindNotFound, Message: entity + " not found"}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NewInvalidStatusError(status string) *AppError {
	return &AppError{
		Kind:    KindInvalidStatus,
		Message: fmt.Sprintf("invalid status %q", status),
		Fields:  []string{"status"},
	}
}

func NewInvalidTransitionError(from, to string) *AppError {
	return &AppError{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot move booking from %s to %s", from, to),
		Fields:  []string{"status"},
	}
}

// IsKind reports whether err wraps an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Fields  []string `json:"fields,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ContextLogger(c).Error("Unhandled panic", zap.Any("error", err))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, fields ...string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Fields: fields})
}

// RespondError turns err into the error envelope. Anything that is not an
// AppError is logged and reported as a generic internal error.
func RespondError(c *gin.Context, err error) {
	logger := ContextLogger(c)

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		logger.Warn(appErr.Message,
			zap.String("kind", string(appErr.Kind)),
			zap.Strings("fields", appErr.Fields),
		)
		JSONError(c, appErr.Kind.HTTPStatus(), appErr.Message, appErr.Fields...)
		return
	}

	logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	JSONError(c, http.StatusInternalServerError, "Internal server error")
}
