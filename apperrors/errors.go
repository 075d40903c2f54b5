// Package apperrors defines the application error taxonomy shared by the
// HTTP controllers and middleware. Synchronous errors map 1:1 to response
// status codes; asynchronous pipeline failures never surface here and become
// terminal states in the read model instead.
package apperrors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is an application error carrying the HTTP status it maps to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Auth failures deliberately share one generic message so callers cannot
// distinguish which check failed.
var (
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrInvalidCredentials = New(http.StatusUnauthorized, "invalid credentials", nil)

	ErrMissingIdempotencyKey = New(http.StatusBadRequest, "missing x-idempotency-key header", nil)
	ErrValidation            = New(http.StatusBadRequest, "Validation error", nil)

	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// ErrorMiddleware maps the last error attached to the gin context to a JSON
// response. Handlers that respond directly are unaffected.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := err.(*Error)
		if !ok {
			appErr = New(http.StatusInternalServerError, ErrInternalServer.Message, err)
		}
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
	}
}
