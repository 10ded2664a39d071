package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheControl marks successful responses as shared-cacheable for maxAge,
// then servable stale for swr while revalidating. Error responses set
// their own no-store header, which takes precedence.
func CacheControl(maxAge, swr time.Duration) gin.HandlerFunc {
	value := fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d",
		int(maxAge.Seconds()), int(swr.Seconds()))

	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}

// NoStore disables caching of the response.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
