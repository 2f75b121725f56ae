package middleware

import (
	"fmt"
	"runtime/debug"

	"keepnotes/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns a panic into the generic 500 envelope. The stack goes to the
// log, never to the client.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				utils.TrackError("http", "panic")
				logger.Error("panic recovered",
					zap.String("request_id", c.GetString(ContextRequestIDKey)),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()))
				utils.Fail(c, fmt.Errorf("panic: %v", rec))
			}
		}()
		c.Next()
	}
}
