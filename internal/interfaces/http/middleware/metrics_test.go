package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})
	return mp, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetricByName(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func metricsRouter(handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(handler)
	router.GET("/api/products/:handle", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"handle": c.Param("handle")})
	})
	router.POST("/api/cart", func(c *gin.Context) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream"})
	})
	return router
}

func TestHTTPMetrics_DisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		cfg  HTTPMetricsConfig
	}{
		{"disabled", HTTPMetricsConfig{Enabled: false}},
		{"nil provider", HTTPMetricsConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := metricsRouter(HTTPMetrics(tt.cfg))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/atlantic-tee", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestHTTPMetricsWithMeter_RecordsByRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mp, reader := setupTestMeter(t)

	router := metricsRouter(HTTPMetricsWithMeter(mp.Meter("http.server"), true))
	for _, handle := range []string{"atlantic-tee", "harbor-hoodie", "atlantic-tee"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/"+handle, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	rm := collectMetrics(t, reader)

	total := findMetricByName(rm, "storefront_http_request_total")
	require.NotNil(t, total)
	sum, ok := total.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)

	route, ok := sum.DataPoints[0].Attributes.Value(attribute.Key("http.route"))
	require.True(t, ok)
	assert.Equal(t, "/api/products/:handle", route.AsString())

	duration := findMetricByName(rm, "storefront_http_request_duration_seconds")
	require.NotNil(t, duration)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Equal(t, uint64(3), hist.DataPoints[0].Count)

	assert.NotNil(t, findMetricByName(rm, "storefront_http_response_size_bytes"))
}

func TestHTTPMetricsWithMeter_StatusCodeAttribute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mp, reader := setupTestMeter(t)

	router := metricsRouter(HTTPMetricsWithMeter(mp.Meter("http.server"), true))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"lines":[]}`)))
	require.Equal(t, http.StatusBadGateway, w.Code)

	rm := collectMetrics(t, reader)
	total := findMetricByName(rm, "storefront_http_request_total")
	require.NotNil(t, total)
	sum := total.Data.(metricdata.Sum[int64])
	status, ok := sum.DataPoints[0].Attributes.Value(attribute.Key("http.status_code"))
	require.True(t, ok)
	assert.Equal(t, int64(http.StatusBadGateway), status.AsInt64())
	class, ok := sum.DataPoints[0].Attributes.Value(attribute.Key("http.status_class"))
	require.True(t, ok)
	assert.Equal(t, "5xx", class.AsString())

	assert.NotNil(t, findMetricByName(rm, "storefront_http_request_size_bytes"))
}

func TestHTTPMetricsWithMeter_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mp, reader := setupTestMeter(t)

	router := metricsRouter(HTTPMetricsWithMeter(mp.Meter("http.server"), true))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	rm := collectMetrics(t, reader)
	total := findMetricByName(rm, "storefront_http_request_total")
	require.NotNil(t, total)
	route, ok := total.Data.(metricdata.Sum[int64]).DataPoints[0].Attributes.Value(attribute.Key("http.route"))
	require.True(t, ok)
	assert.Equal(t, "unknown", route.AsString())
}

func TestHTTPMetricsStatusGroup(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "2xx"},
		{303, "3xx"},
		{422, "4xx"},
		{499, "canceled"},
		{502, "5xx"},
		{101, "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPMetricsStatusGroup(tt.code))
	}
}
