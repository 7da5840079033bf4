package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

func TestOperationFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"", ""},
		{"/", "home"},
		{"/api/products/:handle", "products"},
		{"/api/products/best-sellers", "products"},
		{"/blog/:blog/:article", "blog"},
		{"/search/:collection", "search"},
		{"/:page", ""},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, operationFromRoute(tt.route))
		})
	}
}

func TestProfilingWithConfig(t *testing.T) {
	var labels map[string]string
	router := gin.New()
	router.Use(ProfilingWithConfig(DefaultProfilingConfig()))
	router.GET("/api/products/:handle", func(c *gin.Context) {
		labels = extractProfilingLabels(c)
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/shirt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		telemetry.ProfilingLabelRoute:     "/api/products/:handle",
		telemetry.ProfilingLabelMethod:    http.MethodGet,
		telemetry.ProfilingLabelOperation: "products",
	}, labels)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfilingWithConfig_Disabled(t *testing.T) {
	router := newTestRouter(ProfilingWithConfig(ProfilingConfig{Enabled: false}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
