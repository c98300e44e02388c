package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFeed struct{}

func (fakeFeed) Subscribers() int { return 3 }
func (fakeFeed) Dropped() int64 { return 7 }

func newCollector(t *testing.T) (*MetricsCollector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewMetricsCollector(reg, reg, zap.NewNop()), reg
}

func TestObserveOperation(t *testing.T) {
	m, _ := newCollector(t)

	m.ObserveOperation("mark_meal_cooked", time.Now(), nil)
	m.ObserveOperation("mark_meal_cooked", time.Now(), errors.New("boom"))
	m.AddItems("move_checked_to_pantry", 4)
	m.AddItems("move_checked_to_pantry", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("mark_meal_cooked", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("mark_meal_cooked", "error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.itemsTotal.WithLabelValues("move_checked_to_pantry")))
}

func TestHTTPMiddlewareUsesRoutePattern(t *testing.T) {
	m, _ := newCollector(t)

	r := chi.NewRouter()
	r.Use(m.HTTPMiddleware)
	r.Get("/api/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/recipes/12", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/recipes/13", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/recipes/{id}", "404")))
}

func TestHandlerExposesFeedStats(t *testing.T) {
	m, _ := newCollector(t)
	m.WatchFeed(fakeFeed{})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "kitchen_changefeed_subscribers 3"))
	assert.True(t, strings.Contains(body, "kitchen_changefeed_dropped_total 7"))
}
