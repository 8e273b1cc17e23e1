package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("emoticare_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "emoticare_test", "/v1/stream"))
	router.GET("/v1/conversations/:id/messages", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.POST("/v1/chat", func(c *gin.Context) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate_limit_exceeded"})
	})
	router.GET("/v1/stream", func(c *gin.Context) {
		c.Status(http.StatusSwitchingProtocols)
	})

	for _, path := range []string{"/v1/conversations/a/messages", "/v1/conversations/b/messages"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/v1/chat", nil),
		httptest.NewRequest(http.MethodGet, "/v1/stream", nil),
		httptest.NewRequest(http.MethodGet, "/nowhere", nil),
	} {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	output := scrape(t, provider)

	assertMetricLine(t, output, `emoticare_test_http_requests_total`,
		`method="GET".*path="/v1/conversations/:id/messages".*status_code="200"`, `2`)
	assertMetricLine(t, output, `emoticare_test_http_requests_total`,
		`method="POST".*path="/v1/chat".*status_code="429"`, `1`)
	assertMetricLine(t, output, `emoticare_test_http_requests_total`,
		`path="unknown".*status_code="404"`, `1`)
	assert.NotContains(t, output, `path="/v1/stream"`)
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/v1/conversations/:id/messages", sanitizePath("/v1/conversations/:id/messages"))
	assert.Equal(t, "unknown", sanitizePath(""))
	assert.Equal(t, "/", sanitizePath("/"))
}
