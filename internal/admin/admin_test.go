// AngelaMos | 2026
// admin_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propsunday/classifieds-api/internal/core"
	"github.com/propsunday/classifieds-api/internal/middleware"
)

func TestMarketplaceCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM users\) AS users`).
		WillReturnRows(sqlmock.NewRows([]string{
			"users", "listings", "charged_listings",
			"advertisements", "total_clicks", "total_impressions",
		}).AddRow(12, 40, 5, 3, 210, 9000))
	mock.ExpectQuery(`GROUP BY listing_tier`).
		WillReturnRows(sqlmock.NewRows([]string{"listing_tier", "count"}).
			AddRow("premium", 3).
			AddRow("featured", 2))

	stats, err := NewRepository(sqlx.NewDb(db, "sqlmock")).Marketplace(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(40), stats.Listings)
	assert.Equal(t, int64(210), stats.TotalClicks)
	assert.Equal(t, map[string]int64{"premium": 3, "featured": 2}, stats.ListingsByTier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type stubStats struct {
	stats *MarketplaceStats
	err   error
}

func (s stubStats) Marketplace(context.Context) (*MarketplaceStats, error) {
	return s.stats, s.err
}

func newRouter(cfg HandlerConfig, role string) http.Handler {
	r := chi.NewRouter()
	authenticator := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithPrincipal(req.Context(),
				&middleware.Principal{UserID: "u1", Role: role})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
	NewHandler(cfg).RegisterRoutes(r, authenticator, middleware.RequireAdmin)
	return r
}

func TestSystemStats(t *testing.T) {
	cfg := HandlerConfig{
		DBStats: func() sql.DBStats { return sql.DBStats{OpenConnections: 4} },
		DBPing:  func(context.Context) error { return nil },
		RedisPing: func(context.Context) error {
			return errors.New("redis down")
		},
		Marketplace: stubStats{stats: &MarketplaceStats{Listings: 7}},
	}

	rec := httptest.NewRecorder()
	newRouter(cfg, "admin").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string              `json:"message"`
		Stats   SystemStatsResponse `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotEmpty(t, body.Message)
	assert.True(t, body.Stats.Database.Healthy)
	assert.Equal(t, 4, body.Stats.Database.Stats.OpenConnections)
	assert.False(t, body.Stats.Redis.Healthy)
	require.NotNil(t, body.Stats.Marketplace)
	assert.Equal(t, int64(7), body.Stats.Marketplace.Listings)
	assert.NotEmpty(t, body.Stats.Runtime.GoVersion)
}

func TestStatsRequireAdmin(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(HandlerConfig{}, "user").ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/admin/stats/marketplace", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMarketplaceStatsError(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(HandlerConfig{Marketplace: stubStats{err: errors.New("boom")}}, "admin").
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats/marketplace", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSetRoleQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewRepository(sqlx.NewDb(db, "sqlmock"))
	now := time.Now()

	mock.ExpectQuery(`UPDATE users\s+SET role = \$2, updated_at = NOW\(\)\s+WHERE id = \$1`).
		WithArgs("u2", "admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "updated_at"}).
			AddRow("u2", "agent@example.com", "admin", now))
	mock.ExpectQuery(`UPDATE users`).
		WithArgs("ghost", "user").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "updated_at"}))

	assigned, err := repo.SetRole(context.Background(), "u2", "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", assigned.Role)

	_, err = repo.SetRole(context.Background(), "ghost", "user")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type stubRoles struct {
	calls []string
}

func (s *stubRoles) SetRole(_ context.Context, userID, role string) (*RoleAssignment, error) {
	if userID == "ghost" {
		return nil, core.ErrNotFound
	}
	s.calls = append(s.calls, userID+":"+role)
	return &RoleAssignment{ID: userID, Role: role}, nil
}

func TestSetUserRoleHandler(t *testing.T) {
	tests := []struct {
		name   string
		caller string
		target string
		body   string
		want   int
	}{
		{name: "promote", caller: "admin", target: "u2", body: `{"role":"admin"}`, want: http.StatusOK},
		{name: "demote other admin", caller: "admin", target: "u3", body: `{"role":"user"}`, want: http.StatusOK},
		{name: "unknown role", caller: "admin", target: "u2", body: `{"role":"owner"}`, want: http.StatusBadRequest},
		{name: "malformed body", caller: "admin", target: "u2", body: `{`, want: http.StatusBadRequest},
		{name: "self demotion", caller: "admin", target: "u1", body: `{"role":"user"}`, want: http.StatusBadRequest},
		{name: "missing user", caller: "admin", target: "ghost", body: `{"role":"admin"}`, want: http.StatusNotFound},
		{name: "seller forbidden", caller: "user", target: "u2", body: `{"role":"admin"}`, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := &stubRoles{}
			req := httptest.NewRequest(http.MethodPut,
				"/admin/users/"+tt.target+"/role", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			newRouter(HandlerConfig{Roles: roles}, tt.caller).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusOK {
				assert.Empty(t, roles.calls)
			}
		})
	}
}
