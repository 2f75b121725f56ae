package middleware

import (
	"keepnotes/services"
	"keepnotes/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginRateLimit throttles login attempts per client IP. Limiter errors fail
// open so a Redis outage does not lock everyone out.
func LoginRateLimit(limiter services.LoginLimiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			utils.TrackError("ratelimit", "limiter_unavailable")
			logger.Warn("login rate limiter unavailable", zap.Error(err))
		}
		if !allowed {
			utils.TrackAuthAttempt("failure", "rate_limited")
			utils.Fail(c, utils.NewRateLimitedError("Too many login attempts, please try again later"))
			return
		}
		c.Next()
	}
}
