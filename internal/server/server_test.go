// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propsunday/classifieds-api/internal/config"
)

type flag struct{ down bool }

func (f *flag) SetShutdown(shutdown bool) { f.down = shutdown }

func TestUnknownRouteIsJSON404(t *testing.T) {
	srv := New(Config{ServerConfig: config.ServerConfig{Port: 0}})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message"`)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestPanicIsRecovered(t *testing.T) {
	srv := New(Config{})
	srv.Router().Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestShutdownFlipsHealth(t *testing.T) {
	f := &flag{}
	srv := New(Config{HealthHandler: f})

	require.NoError(t, srv.Shutdown(context.Background(), time.Millisecond))
	assert.True(t, f.down)
}
