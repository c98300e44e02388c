package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alchemorsel/kitchen/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func staticChecker(status Status, message string) *CustomChecker {
	return NewCustomChecker("static", func(ctx context.Context) (Status, string, interface{}) {
		return status, message, nil
	})
}

func TestCheckAggregatesWorstStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"no checks", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New("test", zap.NewNop())
			for i, s := range tt.statuses {
				h.Register(string(rune('a'+i)), staticChecker(s, ""))
			}

			resp := h.Check(context.Background())
			assert.Equal(t, tt.want, resp.Status)
			assert.Len(t, resp.Checks, len(tt.statuses))
			for i, c := range resp.Checks {
				assert.Equal(t, string(rune('a'+i)), c.Name, "checks are sorted by name")
			}
		})
	}
}

func TestCheckIsCached(t *testing.T) {
	var calls int32
	h := New("test", zap.NewNop())
	h.Register("counter", NewCustomChecker("counter", func(ctx context.Context) (Status, string, interface{}) {
		atomic.AddInt32(&calls, 1)
		return StatusHealthy, "", nil
	}))

	h.Check(context.Background())
	h.Check(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	h.SetCacheTTL(0)
	h.Check(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDatabaseChecker(t *testing.T) {
	tdb := testutils.NewTestDatabase(t)
	sqlDB, err := tdb.DB.DB()
	require.NoError(t, err)

	check := NewDatabaseChecker(sqlDB).Check(context.Background())
	assert.Equal(t, StatusHealthy, check.Status)
	assert.NotNil(t, check.Metadata)

	require.NoError(t, sqlDB.Close())
	check = NewDatabaseChecker(sqlDB).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.Contains(t, check.Message, "ping failed")
}

func TestDirChecker(t *testing.T) {
	dir := t.TempDir()

	check := NewDirChecker(filepath.Join(dir, "settings.json")).Check(context.Background())
	assert.Equal(t, StatusHealthy, check.Status)

	check = NewDirChecker(filepath.Join(dir, "missing", "settings.json")).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, check.Status)
}

func TestHandlers(t *testing.T) {
	h := New("1.2.3", zap.NewNop())
	h.Register("ok", staticChecker(StatusHealthy, ""))

	rec := httptest.NewRecorder()
	h.Handler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Contains(t, body, "total_duration_ms")

	h.Register("broken", staticChecker(StatusUnhealthy, "down"))

	rec = httptest.NewRecorder()
	h.Handler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")

	rec = httptest.NewRecorder()
	h.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}

func TestCheckHonoursTimeout(t *testing.T) {
	h := New("test", zap.NewNop())
	h.Register("slow", NewCustomChecker("slow", func(ctx context.Context) (Status, string, interface{}) {
		<-ctx.Done()
		return StatusUnhealthy, ctx.Err().Error(), nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	resp := h.Check(ctx)
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Equal(t, "context deadline exceeded", resp.Checks[0].Message)
}
