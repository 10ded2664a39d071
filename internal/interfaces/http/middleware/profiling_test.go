package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/health")
	assert.Contains(t, cfg.SkipPaths, "/ready")
}

func TestProfilingMiddleware_AttachesLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var route, method, operation string
	r := gin.New()
	r.Use(Profiling())
	r.GET("/api/products/:handle", func(c *gin.Context) {
		ctx := c.Request.Context()
		route, _ = pprof.Label(ctx, "route")
		method, _ = pprof.Label(ctx, "method")
		operation, _ = pprof.Label(ctx, "operation")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/atlantic-tee", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/products/:handle", route)
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "products", operation)
}

func TestProfilingMiddleware_SkipsAndDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		cfg       ProfilingConfig
		path      string
		wantLabel bool
	}{
		{"health skipped", DefaultProfilingConfig(), "/health", false},
		{"health subpath labeled", DefaultProfilingConfig(), "/health/deep", true},
		{"disabled", ProfilingConfig{Enabled: false}, "/api/cart", false},
		{"enabled", DefaultProfilingConfig(), "/api/cart", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var labeled bool
			r := gin.New()
			r.Use(ProfilingWithConfig(tt.cfg))
			r.GET(tt.path, func(c *gin.Context) {
				_, labeled = pprof.Label(c.Request.Context(), "route")
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantLabel, labeled)
		})
	}
}

func TestOperationFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/products", "products"},
		{"/api/products/:handle", "products"},
		{"/api/cart/lines", "cart"},
		{"/api/v1/system/info", "system"},
		{"/api/:id", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, operationFromRoute(tt.route))
		})
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("vx"))
	assert.False(t, isVersionSegment("products"))
}
