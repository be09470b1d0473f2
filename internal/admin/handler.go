// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/propsunday/classifieds-api/internal/core"
	"github.com/propsunday/classifieds-api/internal/middleware"
)

type Handler struct {
	dbStats     func() sql.DBStats
	redisStats  func() *redis.PoolStats
	redisPing   func(ctx context.Context) error
	dbPing      func(ctx context.Context) error
	marketplace StatsRepository
	roles       RoleRepository
	validator   *validator.Validate
}

type HandlerConfig struct {
	DBStats     func() sql.DBStats
	RedisStats  func() *redis.PoolStats
	RedisPing   func(ctx context.Context) error
	DBPing      func(ctx context.Context) error
	Marketplace StatsRepository
	Roles       RoleRepository
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:     cfg.DBStats,
		redisStats:  cfg.RedisStats,
		redisPing:   cfg.RedisPing,
		dbPing:      cfg.DBPing,
		marketplace: cfg.Marketplace,
		roles:       cfg.Roles,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
		r.Get("/stats/marketplace", h.GetMarketplaceStats)

		if h.roles != nil {
			r.Put("/users/{userID}/role", h.SetUserRole)
		}
	})
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// SetUserRole promotes or demotes an account. The change applies to the
// user's next request because the authenticator reads roles from the
// users table.
func (h *Handler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	var req SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID == middleware.GetUserID(r.Context()) && req.Role != middleware.RoleAdmin {
		core.BadRequest(w, "admins cannot demote themselves")
		return
	}

	assigned, err := h.roles.SetRole(r.Context(), userID, req.Role)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, "User role updated", core.Payload{"user": assigned})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealthy := true
	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			dbHealthy = false
		}
	}

	redisHealthy := true
	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			redisHealthy = false
		}
	}

	response := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: readRuntimeStats(),
	}

	if h.marketplace != nil {
		stats, err := h.marketplace.Marketplace(ctx)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		response.Marketplace = stats
	}

	core.OK(w, "System stats retrieved successfully", core.Payload{
		"stats": response,
	})
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, "Database stats retrieved successfully", core.Payload{
		"stats": h.getDBStats(),
	})
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, "Redis stats retrieved successfully", core.Payload{
		"stats": h.getRedisStats(),
	})
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, "Runtime stats retrieved successfully", core.Payload{
		"stats": readRuntimeStats(),
	})
}

func (h *Handler) GetMarketplaceStats(w http.ResponseWriter, r *http.Request) {
	if h.marketplace == nil {
		core.NotFound(w, "marketplace stats")
		return
	}

	stats, err := h.marketplace.Marketplace(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, "Marketplace stats retrieved successfully", core.Payload{
		"stats": stats,
	})
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type SystemStatsResponse struct {
	Database    DatabaseStatus    `json:"database"`
	Redis       RedisStatus       `json:"redis"`
	Runtime     RuntimeStats      `json:"runtime"`
	Marketplace *MarketplaceStats `json:"marketplace,omitempty"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
