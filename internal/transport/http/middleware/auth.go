package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/doccluster/auth-service/internal/domain"
	"github.com/doccluster/auth-service/internal/repository"
	"github.com/doccluster/auth-service/internal/token"
	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized = "Unauthorized"
	errServerConfig = "Server configuration error"
)

// Auth is the session guard for protected routes. It validates the Bearer
// access token and rejects it when the user no longer exists or the stored
// session version has moved past the token's version claim. On success it
// sets "userID" and "tokenVersion" in the gin context. Pure read-through,
// never mutates state.
func Auth(tokens *token.Issuer, users repository.UserRepository, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")

		claims, err := tokens.VerifyAccess(raw)
		if err != nil {
			// Missing secrets are a server fault, not a client one.
			if errors.Is(err, domain.ErrServerConfig) {
				logger.ErrorContext(c.Request.Context(), "session guard misconfigured", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false, "statusCode": http.StatusInternalServerError, "message": errServerConfig,
				})
				return
			}
			abortUnauthorized(c)
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				abortUnauthorized(c)
				return
			}
			logger.ErrorContext(c.Request.Context(), "session guard user lookup", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false, "statusCode": http.StatusInternalServerError, "message": "Something went wrong",
			})
			return
		}

		if user.Version != claims.Version {
			abortUnauthorized(c)
			return
		}

		c.Set("userID", user.ID)
		c.Set("tokenVersion", user.Version)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false, "statusCode": http.StatusUnauthorized, "message": errUnauthorized,
	})
}
