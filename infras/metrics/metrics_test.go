package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"rentfy/infras/metrics"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(metrics.Middleware)
	router.Get("/v1/bookings/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := metrics.RequestsTotal.WithLabelValues("/v1/bookings/{id}", "404", http.MethodGet)
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/bookings/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.InDelta(t, before+2, testutil.ToFloat64(counter), 0)
}

func TestHandler_ExposesCounters(t *testing.T) {
	metrics.BookingsCreated.Inc()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "rentfy_bookings_created_total"))
}
