// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy() Checker {
	return pingFunc(func(context.Context) error { return nil })
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checkers   []NamedChecker
		wantStatus int
		wantState  string
	}{
		{
			name: "all healthy",
			checkers: []NamedChecker{
				{Name: "database", Checker: healthy()},
				{Name: "redis", Checker: healthy()},
			},
			wantStatus: http.StatusOK,
			wantState:  "ok",
		},
		{
			name: "storage down",
			checkers: []NamedChecker{
				{Name: "database", Checker: healthy()},
				{Name: "storage", Checker: pingFunc(func(context.Context) error {
					return errors.New("connection refused")
				})},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "degraded",
		},
		{
			name:       "nil checker",
			checkers:   []NamedChecker{{Name: "redis"}},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.checkers...)
			h.SetReady(true)
			rec := httptest.NewRecorder()
			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body struct {
				Message string        `json:"message"`
				Status  string        `json:"status"`
				Checks  []HealthCheck `json:"checks"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Equal(t, tt.wantState, body.Message)
			assert.Len(t, body.Checks, len(tt.checkers))
		})
	}
}

func TestNotReadyUntilStartupCompletes(t *testing.T) {
	h := NewHandler()

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")

	h.SetReady(true)
	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShutdownFailsLiveness(t *testing.T) {
	h := NewHandler()
	h.SetShutdown(true)

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "shutting_down")
}
