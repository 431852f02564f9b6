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

	"github.com/carterperez-dev/templates/forms-backend/internal/admin"
	"github.com/carterperez-dev/templates/forms-backend/internal/auth"
	"github.com/carterperez-dev/templates/forms-backend/internal/config"
	"github.com/carterperez-dev/templates/forms-backend/internal/core"
	"github.com/carterperez-dev/templates/forms-backend/internal/form"
	"github.com/carterperez-dev/templates/forms-backend/internal/health"
	"github.com/carterperez-dev/templates/forms-backend/internal/middleware"
	"github.com/carterperez-dev/templates/forms-backend/internal/responses"
	"github.com/carterperez-dev/templates/forms-backend/internal/server"
	"github.com/carterperez-dev/templates/forms-backend/internal/store"
	"github.com/carterperez-dev/templates/forms-backend/internal/submission"
	"github.com/carterperez-dev/templates/forms-backend/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
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

	telemetry, err := core.NewTelemetry(ctx, cfg)
	if err != nil {
		logger.Warn("failed to initialize telemetry", "error", err)
	} else if telemetry != nil {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	stores, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("store connected", "driver", stores.Driver)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		//nolint:errcheck // exiting anyway
		_ = stores.Close()
		return err
	}
	if redis.Enabled() {
		logger.Info("redis connected",
			"pool_size", cfg.Redis.PoolSize,
		)
	} else {
		logger.Warn("redis not configured, rate limits are per process")
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "HS256",
		"expires", cfg.JWT.AccessTokenExpire > 0,
	)

	userSvc := user.NewService(stores.Users)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(jwtManager, userSvc)
	authHandler := auth.NewHandler(authSvc)

	formSvc := form.NewService(stores.Forms)
	formHandler := form.NewHandler(formSvc)

	submissionSvc := submission.NewService(stores.Submissions, formSvc, userSvc)
	submissionHandler := submission.NewHandler(submissionSvc)

	aggregator := responses.NewAggregator(formSvc, submissionSvc, userSvc)
	responsesHandler := responses.NewHandler(aggregator)

	deps := []health.Dependency{{Name: stores.Driver, Checker: stores}}
	adminCfg := admin.HandlerConfig{
		StoreDriver: stores.Driver,
		DBStats:     stores.DBStats,
		StorePing:   stores.Ping,
		Users:       userSvc,
		Forms:       formSvc,
		Submissions: submissionSvc,
	}
	if redis.Enabled() {
		deps = append(deps, health.Dependency{Name: "redis", Checker: redis})
		adminCfg.RedisStats = redis.PoolStats
		adminCfg.RedisPing = redis.Ping
	}

	healthHandler := health.NewHandler(deps...)
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen:   true,
			BypassFunc: middleware.SkipPaths("/healthz", "/livez", "/readyz"),
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	loginLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.LoginRequests,
			cfg.RateLimit.LoginBurst,
		),
		KeyFunc:  middleware.KeyByRoute("login"),
		FailOpen: true,
	})

	submitLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		KeyFunc:  middleware.KeyByUserAndEndpoint,
		FailOpen: true,
	})

	authenticator := middleware.Authenticator(jwtManager)
	optionalAuth := middleware.OptionalAuth(jwtManager)
	adminOnly := middleware.RequireAdmin
	confirmAdmin := middleware.ConfirmRole(userSvc, core.RoleAdmin)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			authHandler.RegisterRoutes(
				r,
				authenticator,
				optionalAuth,
				loginLimiter.Handler,
			)
			userHandler.RegisterAdminRoutes(r, authenticator, adminOnly, confirmAdmin)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Route("/forms", func(r chi.Router) {
				formHandler.RegisterRoutes(r, adminOnly, confirmAdmin)
				responsesHandler.RegisterRoutes(r, adminOnly)
			})

			r.Route("/submissions", func(r chi.Router) {
				submissionHandler.RegisterRoutes(r, submitLimiter.Handler)
			})

			adminHandler.RegisterRoutes(r, adminOnly)
		})
	})

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

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := stores.Close(); err != nil {
		logger.Error("store close error", "error", err)
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

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
