package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl sets the Cache-Control header. Applied to the aggregation
// endpoints so dashboard polling does not hammer recomputation; the Redis
// result cache in the service layer bounds staleness the same way.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAgeSeconds))
		c.Next()
	}
}
