package middleware

import "github.com/gin-gonic/gin"

// CacheControlMiddleware marks responses publicly cacheable for maxAge seconds.
func CacheControlMiddleware(maxAge string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age="+maxAge)
		c.Next()
	}
}
