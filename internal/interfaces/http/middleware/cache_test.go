package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCacheControl(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/api/products", CacheControl(time.Minute, 2*time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/api/products/:handle", CacheControl(5*time.Minute, 10*time.Minute), func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Status(http.StatusNotFound)
	})
	router.GET("/api/session/cart", NoStore(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		path string
		want string
	}{
		{"/api/products", "public, s-maxage=60, stale-while-revalidate=120"},
		{"/api/products/missing", "no-store"},
		{"/api/session/cart", "no-store"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Header().Get("Cache-Control"))
		})
	}
}
