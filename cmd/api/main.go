// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"

	"github.com/propsunday/classifieds-api/internal/admin"
	"github.com/propsunday/classifieds-api/internal/advertisement"
	"github.com/propsunday/classifieds-api/internal/auth"
	"github.com/propsunday/classifieds-api/internal/config"
	"github.com/propsunday/classifieds-api/internal/core"
	"github.com/propsunday/classifieds-api/internal/health"
	"github.com/propsunday/classifieds-api/internal/listing"
	"github.com/propsunday/classifieds-api/internal/media"
	"github.com/propsunday/classifieds-api/internal/middleware"
	"github.com/propsunday/classifieds-api/internal/payment"
	"github.com/propsunday/classifieds-api/internal/server"
	"github.com/propsunday/classifieds-api/internal/user"
	"github.com/propsunday/classifieds-api/internal/web"
)

const (
	drainDelay = 5 * time.Second
	apiPrefix  = "/api"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	var storage *core.ObjectStorage
	if cfg.Storage.Enabled {
		storage, err = core.NewObjectStorage(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		logger.Info("object storage connected",
			"endpoint", cfg.Storage.Endpoint,
			"bucket", cfg.Storage.Bucket,
		)
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token issuer initialized",
		"algorithm", "ES256",
		"key_id", tokens.KeyID(),
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(
		authRepo,
		tokens,
		userSvc,
		auth.NewRedisBlacklist(redis.Client),
	)
	authHandler := auth.NewHandler(authSvc)

	listingRepo := listing.NewRepository(db.DB)
	listingHandler := listing.NewHandler(listing.NewService(listingRepo))

	paymentSvc := payment.NewService(
		listingRepo,
		payment.SimulatedProcessor{},
		payment.DefaultCatalog(),
		cfg.Payment.Currency,
	)
	paymentHandler := payment.NewHandler(paymentSvc)

	adHandler := advertisement.NewHandler(
		advertisement.NewService(advertisement.NewRepository(db.DB)),
	)

	checkers := []health.NamedChecker{
		{Name: "database", Checker: db},
		{Name: "redis", Checker: redis},
	}
	if storage != nil {
		checkers = append(checkers, health.NamedChecker{Name: "storage", Checker: storage})
	}
	healthHandler := health.NewHandler(checkers...)

	adminRepo := admin.NewRepository(db.DB)
	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:     db.Stats,
		RedisStats:  redis.PoolStats,
		DBPing:      db.Ping,
		RedisPing:   redis.Ping,
		Marketplace: adminRepo,
		Roles:       adminRepo,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	if telemetry != nil {
		router.Use(middleware.Tracing(core.Tracer()))
	}
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	if cfg.Web.Enabled {
		router.NotFound(web.NewHandler(cfg.Web.StaticDir, apiPrefix).ServeHTTP)
		logger.Info("serving frontend", "static_dir", cfg.Web.StaticDir)
	}

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", tokens.ServeJWKS)

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin
	tracking := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.TrackingRequests,
			cfg.RateLimit.TrackingBurst,
		),
		KeyFunc:  middleware.KeyByIPAndEndpoint,
		FailOpen: true,
	}).Handler

	router.Route(apiPrefix, func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator)
		listingHandler.RegisterRoutes(r, authenticator)
		paymentHandler.RegisterRoutes(r, authenticator)
		adHandler.RegisterRoutes(r, authenticator, tracking)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)

		if storage != nil {
			media.NewHandler(storage, cfg.Storage.MaxUploadSize).
				RegisterRoutes(r, authenticator)
		}
	})

	healthHandler.SetReady(true)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	}

	return slog.New(handler)
}
