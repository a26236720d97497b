// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/josealexandro/chaama/internal/account"
	"github.com/josealexandro/chaama/internal/admin"
	"github.com/josealexandro/chaama/internal/auth"
	"github.com/josealexandro/chaama/internal/campaign"
	"github.com/josealexandro/chaama/internal/classified"
	"github.com/josealexandro/chaama/internal/config"
	"github.com/josealexandro/chaama/internal/core"
	"github.com/josealexandro/chaama/internal/health"
	"github.com/josealexandro/chaama/internal/media"
	"github.com/josealexandro/chaama/internal/middleware"
	"github.com/josealexandro/chaama/internal/notify"
	"github.com/josealexandro/chaama/internal/payment"
	"github.com/josealexandro/chaama/internal/provider"
	"github.com/josealexandro/chaama/internal/review"
	"github.com/josealexandro/chaama/internal/server"
	"github.com/josealexandro/chaama/internal/subscription"
)

const (
	drainDelay  = 5 * time.Second
	webhookPath = "/v1/billing/webhook"
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

	flushErrors, err := core.InitErrorReporting(cfg.Sentry, cfg.App)
	if err != nil {
		logger.Warn("failed to initialize error reporting", "error", err)
	}
	defer flushErrors()

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

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	mailer := notify.New(cfg.Mail, logger)

	var payments subscription.PaymentProvider
	if stripe := payment.NewStripe(cfg.Stripe); stripe != nil {
		payments = stripe
		logger.Info("payment provider configured", "checkout", cfg.Stripe.Configured())
	} else {
		logger.Warn("payment provider not configured, billing endpoints disabled")
	}

	deps := []health.Dependency{
		{Name: "database", Checker: db},
		{Name: "redis", Checker: redis},
	}

	var (
		objectStore media.ObjectStore
		storagePing func(context.Context) error
	)
	if cfg.Storage.Enabled() {
		minioStore, storeErr := media.NewMinioStore(ctx, cfg.Storage)
		if storeErr != nil {
			return storeErr
		}
		objectStore = minioStore
		storagePing = minioStore.Ping
		deps = append(deps, health.Dependency{Name: "storage", Checker: minioStore})
		logger.Info("object storage connected", "bucket", cfg.Storage.Bucket)
	}

	accountSvc := account.NewService(account.NewRepository(db.DB))
	accountHandler := account.NewHandler(accountSvc)

	subscriptionSvc := subscription.NewService(
		subscription.NewRepository(db.DB),
		payments,
		mailer,
		subscription.Config{
			Required: cfg.Subscription.Required,
			Retry:    core.DefaultRetryConfig(),
		},
		logger,
	)
	subscriptionHandler := subscription.NewHandler(subscriptionSvc)

	providerSvc := provider.NewService(provider.NewRepository(db.DB))
	providerHandler := provider.NewHandler(providerSvc)

	reviewSvc := review.NewService(
		review.NewStore(db.DB),
		core.RetryConfig{
			MaxAttempts:     cfg.Reviews.MaxAttempts,
			InitialInterval: cfg.Reviews.InitialBackoff,
			MaxInterval:     cfg.Reviews.InitialBackoff * 16,
		},
		logger,
	)
	reviewHandler := review.NewHandler(reviewSvc)

	campaignSvc := campaign.NewService(
		campaign.NewRepository(db.DB),
		cfg.Campaigns.PlanDays,
		logger,
	)
	sweeper := campaign.NewSweeper(campaignSvc, redis, cfg.Campaigns.SweepInterval, logger)
	campaignHandler := campaign.NewHandler(campaignSvc, sweeper)

	classifiedSvc := classified.NewService(classified.NewRepository(db.DB))
	classifiedHandler := classified.NewHandler(classifiedSvc)

	mediaSvc := media.NewService(
		objectStore,
		cfg.Storage.PublicBaseURL,
		cfg.Storage.MaxUploadSize,
		logger,
	)
	mediaHandler := media.NewHandler(mediaSvc)

	healthHandler := health.NewHandler(deps...)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:     db.Stats,
		RedisStats:  redis.PoolStats,
		DBPing:      db.Ping,
		RedisPing:   redis.Ping,
		StoragePing: storagePing,
		Repository:  admin.NewRepository(db.DB),
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			LocalFallback: true,
			BypassFunc: func(r *http.Request) bool {
				return r.URL.Path == webhookPath
			},
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	writeLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.WriteRequests,
			cfg.RateLimit.WriteBurst,
			cfg.RateLimit.Window,
		),
		KeyFunc:       middleware.KeyByUserAndEndpoint,
		LocalFallback: true,
	}).Handler

	authenticator := middleware.Authenticator(jwtManager)
	adminOnly := middleware.RequireAdmin
	requireActive := subscriptionSvc.RequireActive

	router.Route("/v1", func(r chi.Router) {
		accountHandler.RegisterRoutes(r, authenticator)
		subscriptionHandler.RegisterRoutes(r, authenticator, writeLimit)
		providerHandler.RegisterRoutes(r, authenticator, requireActive)
		reviewHandler.RegisterRoutes(r, authenticator, writeLimit)
		campaignHandler.RegisterRoutes(r, authenticator, requireActive)
		classifiedHandler.RegisterRoutes(r, authenticator)
		mediaHandler.RegisterRoutes(r, authenticator)

		subscriptionHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		campaignHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	sweepCtx, stopSweeps := context.WithCancel(ctx)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sweeper.Run(sweepCtx)
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		stopSweeps()
		<-sweepDone
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	healthHandler.SetReady(false)
	stopSweeps()
	<-sweepDone

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

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
