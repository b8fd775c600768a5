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
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/course-gate/internal/admin"
	"github.com/carterperez-dev/templates/course-gate/internal/config"
	"github.com/carterperez-dev/templates/course-gate/internal/core"
	"github.com/carterperez-dev/templates/course-gate/internal/health"
	"github.com/carterperez-dev/templates/course-gate/internal/metrics"
	"github.com/carterperez-dev/templates/course-gate/internal/middleware"
	"github.com/carterperez-dev/templates/course-gate/internal/navigation"
	"github.com/carterperez-dev/templates/course-gate/internal/progress"
	"github.com/carterperez-dev/templates/course-gate/internal/server"
	"github.com/carterperez-dev/templates/course-gate/internal/session"
	"github.com/carterperez-dev/templates/course-gate/internal/store"
	"github.com/carterperez-dev/templates/course-gate/internal/ui"
	"github.com/carterperez-dev/templates/course-gate/internal/visitor"
)

const (
	drainDelay      = 5 * time.Second
	progressLogWait = 500 * time.Millisecond
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
		telemetry = &core.Telemetry{}
	} else if telemetry.Enabled() {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
			"sample_rate", cfg.Otel.SampleRate,
		)
	}

	storage, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("storage opened", "backend", storage.Name)

	tokens, err := visitor.NewTokenManager(cfg.Visitor)
	if err != nil {
		return err
	}
	logger.Info("visitor tokens initialized",
		"algorithm", "ES256",
		"key_id", tokens.KeyID(),
		"ephemeral_key", cfg.Visitor.PrivateKeyPath == "",
	)

	if cfg.Access.TestMode {
		logger.Warn("access test mode is ON: every protected page is granted")
	}

	notifier := ui.NewNotifier(logger)
	promMetrics := metrics.New()

	sessionSvc := session.NewService(
		storage.Backend,
		session.VerifierFromConfig(cfg.Access),
		session.Options{
			TestMode: cfg.Access.TestMode,
			Logger:   logger,
		},
	)

	progressSvc := progress.NewService(
		storage.Backend,
		progress.Notifiers{
			ui.NewCompletionToasts(notifier, cfg.Notifications.CompletionDuration),
			promMetrics,
		},
		logger,
	)
	progressLog := ui.NewCoalescer(progressLogWait)
	progressSvc.OnRefresh(func(ctx context.Context, visitorID string, s progress.Summary) {
		ctx = context.WithoutCancel(ctx)
		progressLog.Call(visitorID, func() {
			logger.DebugContext(ctx, "course progress changed",
				"visitor_id", visitorID,
				"completed", s.Completed,
				"percentage", s.Percentage,
			)
		})
	})

	navController := navigation.NewController(sessionSvc, progressSvc, navigation.Options{
		Check:              cfg.Access.NavigationCheck,
		EnforceUnlockOrder: cfg.Access.EnforceUnlockOrder,
		Logger:             logger,
		OnTransition:       promMetrics.ObserveTransition,
	})

	sessionHandler := session.NewHandler(sessionSvc)
	progressHandler := progress.NewHandler(progressSvc, !cfg.IsProduction())
	navHandler := navigation.NewHandler(navController)
	uiHandler := ui.NewHandler(
		notifier,
		ui.NewViewStore(storage.Backend, logger),
		cfg.Notifications.DefaultDuration,
	)

	healthHandler := health.NewHandler(health.Check{
		Name:    "storage",
		Checker: storage.Backend,
	})

	adminCfg := admin.HandlerConfig{
		Backend:     storage.Name,
		StoragePing: storage.Backend.Ping,
	}
	if storage.DB != nil {
		adminCfg.DBStats = storage.DB.Stats
	}
	var rdb *redis.Client
	if storage.Redis != nil {
		adminCfg.RedisStats = storage.Redis.PoolStats
		rdb = storage.Redis.Client
	}
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	bypass := []string{"/healthz", "/livez", "/readyz"}
	if cfg.Metrics.Enabled {
		bypass = append(bypass, cfg.Metrics.Path)
	}

	rateLimiter := middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		FailOpen: true,
		Bypass:   bypass,
	})
	defer rateLimiter.Close()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(promMetrics.Middleware)
	}
	router.Use(rateLimiter.Handler)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, promMetrics.Handler())
	}

	router.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Visitor(tokens, middleware.VisitorCookie{
			Name:   cfg.Visitor.CookieName,
			Secure: cfg.Visitor.SecureCookie,
			NewID:  visitor.NewVisitorID,
		}))
		r.Use(middleware.Locale(cfg.App.Locale))

		sessionHandler.RegisterRoutes(r)
		progressHandler.RegisterRoutes(r)
		navHandler.RegisterRoutes(r)
		uiHandler.RegisterRoutes(r)

		if !cfg.IsProduction() {
			adminHandler.RegisterRoutes(r)
		}
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

	notifier.Close()
	progressLog.Stop()

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := storage.Close(); err != nil {
		logger.Error("storage close error", "error", err)
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
