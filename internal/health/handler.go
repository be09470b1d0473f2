// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propsunday/classifieds-api/internal/core"
)

type Checker interface {
	Ping(ctx context.Context) error
}

// NamedChecker is one dependency probed by the readiness endpoint.
type NamedChecker struct {
	Name    string
	Checker Checker
}

type Handler struct {
	checkers []NamedChecker
	ready    atomic.Bool
	shutdown atomic.Bool
}

// NewHandler starts not ready; callers flip readiness with SetReady once
// startup work such as migrations has finished.
func NewHandler(checkers ...NamedChecker) *Handler {
	return &Handler{checkers: checkers}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, "shutting_down", nil)
		return
	}
	h.writeStatus(w, http.StatusOK, "ok", nil)
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, "shutting_down", nil)
		return
	}

	if !h.ready.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, "not_ready", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := h.runHealthChecks(ctx)

	status := "ok"
	statusCode := http.StatusOK
	for _, check := range checks {
		if !check.Healthy {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	h.writeStatus(w, statusCode, status, checks)
}

func (h *Handler) runHealthChecks(ctx context.Context) []HealthCheck {
	var wg sync.WaitGroup
	checks := make([]HealthCheck, len(h.checkers))

	for i, nc := range h.checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checks[i] = probe(ctx, nc)
		}()
	}

	wg.Wait()
	return checks
}

func probe(ctx context.Context, nc NamedChecker) HealthCheck {
	check := HealthCheck{Name: nc.Name, Healthy: true}

	if nc.Checker == nil {
		check.Healthy = false
		check.Message = nc.Name + " checker not configured"
		return check
	}

	start := time.Now()
	err := nc.Checker.Ping(ctx)
	check.Latency = time.Since(start).String()

	if err != nil {
		check.Healthy = false
		check.Message = "ping failed"
	}

	return check
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func (h *Handler) writeStatus(
	w http.ResponseWriter,
	code int,
	status string,
	checks []HealthCheck,
) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	body := core.Payload{"message": status, "status": status}
	if checks != nil {
		body["checks"] = checks
	}
	core.JSON(w, code, body)
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
