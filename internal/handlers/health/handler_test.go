package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentfy/internal/handlers/health"
)

type statusEnvelope struct {
	Success bool          `json:"success"`
	Data    health.Status `json:"data"`
}

func get(t *testing.T, handler health.Handler, path string) (int, statusEnvelope) {
	t.Helper()

	router := chi.NewRouter()
	handler.Router(router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

	var env statusEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env))

	return recorder.Code, env
}

func TestHealth(t *testing.T) {
	code, env := get(t, health.NewWithChecks(nil), "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", env.Data.Status)
}

func TestReady(t *testing.T) {
	ok := func(context.Context) error { return nil }

	tests := []struct {
		name         string
		checks       map[string]health.Check
		expectedCode int
		expected     health.Status
	}{
		{
			name:         "all dependencies up",
			checks:       map[string]health.Check{"postgres": ok, "redis": ok},
			expectedCode: http.StatusOK,
			expected:     health.Status{Status: "ok", Dependencies: map[string]string{"postgres": "ok", "redis": "ok"}},
		},
		{
			name: "one dependency down",
			checks: map[string]health.Check{
				"postgres": ok,
				"redis":    func(context.Context) error { return errors.New("connection refused") },
			},
			expectedCode: http.StatusServiceUnavailable,
			expected:     health.Status{Status: "unavailable", Dependencies: map[string]string{"postgres": "ok", "redis": "connection refused"}},
		},
		{
			name: "slow dependency times out",
			checks: map[string]health.Check{
				"postgres": func(ctx context.Context) error {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-time.After(10 * time.Second):
						return nil
					}
				},
			},
			expectedCode: http.StatusServiceUnavailable,
			expected:     health.Status{Status: "unavailable", Dependencies: map[string]string{"postgres": context.DeadlineExceeded.Error()}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := get(t, health.NewWithChecks(tt.checks), "/ready")

			assert.Equal(t, tt.expectedCode, code)
			assert.Equal(t, tt.expected, env.Data)
		})
	}
}
