package health

import (
	"context"
	"net/http"
	"rentfy/infras/postgres"
	"rentfy/transport/http/response"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 2 * time.Second

// Check reports whether a dependency can serve traffic.
type Check func(ctx context.Context) error

type Handler struct {
	checks map[string]Check
}

func New(db *postgres.Connection, redis *goRedis.Client) Handler {
	return NewWithChecks(map[string]Check{
		"postgres": db.Ping,
		"redis": func(ctx context.Context) error {
			return redis.Ping(ctx).Err() //nolint:wrapcheck
		},
	})
}

func NewWithChecks(checks map[string]Check) Handler {
	return Handler{checks: checks}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
	router.Get("/ready", handler.Ready)
}

type Status struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Health reports liveness.
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[Status]
// @Router /health [get]
func (handler *Handler) Health(writer http.ResponseWriter, _ *http.Request) {
	response.WithJSON(writer, http.StatusOK, Status{Status: "ok"})
}

// Ready pings every dependency concurrently.
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[Status]
// @Failure 503 {object} response.Data[Status]
// @Router /ready [get]
func (handler *Handler) Ready(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(handler.checks))
	for name := range handler.checks {
		names = append(names, name)
	}

	sort.Strings(names)

	results := make([]error, len(names))

	var group errgroup.Group

	for i, name := range names {
		group.Go(func() error {
			results[i] = handler.checks[name](ctx)

			return nil
		})
	}

	_ = group.Wait()

	status := Status{Status: "ok", Dependencies: make(map[string]string, len(names))}
	code := http.StatusOK

	for i, name := range names {
		if results[i] != nil {
			log.Warn().Err(results[i]).Str("dependency", name).Msg("readiness check failed")

			status.Status = "unavailable"
			status.Dependencies[name] = results[i].Error()
			code = http.StatusServiceUnavailable

			continue
		}

		status.Dependencies[name] = "ok"
	}

	response.WithJSON(writer, code, status)
}
