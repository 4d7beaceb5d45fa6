package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/doccluster/auth-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// envelope is the uniform success response shape.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// errorEnvelope is the uniform error response shape. Internal details are
// logged with the request context, never returned to the client.
type errorEnvelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorEnvelope{
		StatusCode: http.StatusBadRequest,
		Message:    err.Error(),
	})
}

// statusMessage maps a domain error to its HTTP status and user-facing
// message. Unknown errors map to 500 with an opaque message.
func statusMessage(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errUserNotFound, true
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, errConflict, true
	case errors.Is(err, domain.ErrInvalidCode):
		return http.StatusBadRequest, errInvalidCode, true
	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusConflict, errAlreadyVerified, true
	case errors.Is(err, domain.ErrNotVerified):
		return http.StatusForbidden, errNotVerified, true
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, errRateLimited, true
	case errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusUnauthorized, errInvalidCredential, true
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, errTokenExpired, true
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, errTokenInvalid, true
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errUnauthorized, true
	case errors.Is(err, domain.ErrServerConfig):
		return http.StatusInternalServerError, errServerConfig, true
	default:
		return http.StatusInternalServerError, errInternalServer, false
	}
}

// respondError is the single responder every handler funnels errors
// through. Domain rule violations keep their typed message; everything
// else is wrapped as an opaque internal error and logged in full.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status, message, known := statusMessage(err)
	if !known {
		logger.ErrorContext(c.Request.Context(), "internal error", "error", err)
	}
	c.JSON(status, errorEnvelope{StatusCode: status, Message: message})
}
