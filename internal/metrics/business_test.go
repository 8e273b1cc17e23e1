package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the exposition output has a sample for name whose labels
// match the pattern and whose value matches. The exporter adds OTel scope labels, hence
// the loose label matching.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("emoticare_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "emoticare_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "user", "login", "success")
	bm.RecordOperation(ctx, "user", "login", "success")
	bm.RecordOperation(ctx, "user", "login", "error")
	bm.RecordOperation(ctx, "conversation", "chat", "success")
	bm.RecordDuration(ctx, "user", "login", 40*time.Millisecond, "success")
	bm.RecordDuration(ctx, "user", "login", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "conversation", "chat", 900*time.Millisecond, "success")

	output := scrape(t, provider)

	assertMetricLine(t, output, `emoticare_test_operations_total`,
		`domain="user".*operation="login".*status="success"`, `2`)
	assertMetricLine(t, output, `emoticare_test_operations_total`,
		`domain="user".*operation="login".*status="error"`, `1`)
	assertMetricLine(t, output, `emoticare_test_operations_total`,
		`domain="conversation".*operation="chat".*status="success"`, `1`)
	assertMetricLine(t, output, `emoticare_test_operation_duration_seconds_count`,
		`domain="user".*operation="login".*status="success"`, `2`)
	assertMetricLine(t, output, `emoticare_test_operation_duration_seconds_sum`,
		`domain="conversation".*operation="chat".*status="success"`, ``)
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	assert.NotPanics(t, func() {
		bm.RecordOperation(context.Background(), "user", "register", "error")
		bm.RecordDuration(context.Background(), "user", "register", time.Second, "error")
	})
}
