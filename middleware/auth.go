package middleware

import (
	"context"
	"errors"
	"strings"

	"keepnotes/model"
	"keepnotes/services"
	"keepnotes/usecase"
	"keepnotes/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
)

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// AuthMiddleware rejects the request before any handler runs unless the
// bearer token resolves to an existing user, which is then stored on the
// context.
func AuthMiddleware(auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if utils.KindOf(err) == utils.KindInternal {
				logger.Error("authentication failed",
					zap.String("request_id", c.GetString(ContextRequestIDKey)),
					zap.Error(err))
			} else {
				logger.Info("request rejected",
					zap.String("reason", AuthFailureReason(err)),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(ContextRequestIDKey)))
			}
			utils.Fail(c, err)
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or returns "" when the header is absent or uses another scheme.
func BearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthFailureReason names why authentication failed, for logs only.
func AuthFailureReason(err error) string {
	switch {
	case errors.Is(err, services.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, services.ErrTokenExpired):
		return "expired_token"
	case errors.Is(err, services.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, usecase.ErrStaleToken):
		return "stale_token"
	default:
		return "unknown"
	}
}

// CurrentUser returns the identity attached by AuthMiddleware.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok && user != nil
}
