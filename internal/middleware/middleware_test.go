// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propsunday/classifieds-api/internal/core"
)

type stubVerifier struct {
	principal *Principal
	err       error
}

func (s stubVerifier) VerifyAccessToken(_ context.Context, _ string) (*Principal, error) {
	return s.principal, s.err
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(GetUserID(r.Context())))
}

func TestAuthenticator(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   stubVerifier
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bearer without token",
			header:     "Bearer   ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			header:     "Bearer abc",
			verifier:   stubVerifier{err: fmt.Errorf("verify: %w", core.ErrTokenExpired)},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "TOKEN_EXPIRED",
		},
		{
			name:       "revoked token",
			header:     "Bearer abc",
			verifier:   stubVerifier{err: core.ErrTokenRevoked},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "TOKEN_REVOKED",
		},
		{
			name:       "valid token",
			header:     "bearer abc",
			verifier:   stubVerifier{principal: &Principal{UserID: "user-1", Role: "user"}},
			wantStatus: http.StatusOK,
			wantBody:   "user-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Authenticator(tt.verifier)(http.HandlerFunc(echoUser))

			req := httptest.NewRequest(http.MethodGet, "/api/listings/my-listings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(http.HandlerFunc(echoUser))

	tests := []struct {
		name      string
		principal *Principal
		want      int
	}{
		{name: "anonymous", want: http.StatusUnauthorized},
		{name: "seller", principal: &Principal{UserID: "u", Role: "user"}, want: http.StatusForbidden},
		{name: "admin", principal: &Principal{UserID: "a", Role: RoleAdmin}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			if tt.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRateLimiterLocalFallback(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit:   PerMinute(60, 2),
		KeyFunc: KeyByIPAndEndpoint,
	})
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/advertisements/42/track-click", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/api/advertisements/42/track-click", nil)
	other.RemoteAddr = "198.51.100.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t,
		"/api/advertisements/{id}/track-click",
		normalizeEndpoint("/api/advertisements/6f1c1a8e-2b9d-4a47-9d59-2f0e7d1b9c11/track-click"),
	)
	assert.Equal(t, "/api/advertisements/{id}", normalizeEndpoint("/api/advertisements/17/"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:4242"
	assert.Equal(t, "10.0.0.5", ClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.9")
	assert.Equal(t, "198.51.100.9", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.0.2.44")
	assert.Equal(t, "192.0.2.44", ClientIP(req))
	assert.Equal(t, "ratelimit:ip:192.0.2.44", KeyByIP(req))
}
