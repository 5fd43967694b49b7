package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/pressleaf/pressleaf/pkg/api"
	"github.com/pressleaf/pressleaf/pkg/auth"
	"github.com/pressleaf/pressleaf/pkg/config"
	"github.com/pressleaf/pressleaf/pkg/i18n"
	"github.com/pressleaf/pressleaf/pkg/mail"
	"github.com/pressleaf/pressleaf/pkg/middleware"
	"github.com/pressleaf/pressleaf/pkg/observability"
	"github.com/pressleaf/pressleaf/pkg/prefs"
	"github.com/pressleaf/pressleaf/pkg/render"
	"github.com/pressleaf/pressleaf/pkg/session"
	"github.com/pressleaf/pressleaf/pkg/store"
)

func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(observability.ParseLogLevel(cfg.LogLevel), os.Stdout)
	logger.WithField("port", cfg.Server.Port).Info("Starting pressleaf")

	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		logger.WithError(err).Error("Failed to open database")
		os.Exit(1)
	}

	sessions, err := session.NewRedisStore(cfg.Session.RedisURL, cfg.Session.TTL)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to redis")
		os.Exit(1)
	}

	bundle, err := i18n.Load(i18n.EmbeddedLocales, cfg.Prefs.Locales)
	if err != nil {
		logger.WithError(err).Error("Failed to load translation bundles")
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	renderer, err := render.NewRenderer(render.Options{
		TemplatesDir: cfg.Render.TemplatesDir,
		DevReload:    cfg.Render.DevReload,
		CacheSize:    cfg.Render.CacheSize,
		Metrics:      metrics,
		Logger:       logger,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to initialize renderer")
		os.Exit(1)
	}

	var mailer mail.Sender
	if cfg.Mail.ResendAPIKey != "" {
		mailer = mail.NewResendSender(cfg.Mail.ResendAPIKey, cfg.Mail.From, cfg.Mail.To)
	} else {
		logger.Warn("No mail API key configured, contact form disabled")
	}

	limiter := middleware.NewRateLimiter(sessions.Client(), middleware.DefaultLoginRateLimit(), "ratelimit:login")

	server := api.NewServer(api.Deps{
		Store:       db,
		Sessions:    sessions,
		Codec:       auth.NewCodec(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL),
		Resolver:    prefs.NewResolver(cfg.Prefs.Locales),
		Renderer:    renderer,
		Bundle:      bundle,
		Mailer:      mailer,
		Limiter:     limiter,
		Metrics:     metrics,
		Logger:      logger,
		AdminEmail:  cfg.Auth.AdminEmail,
		CORSOrigins: cfg.CORS.Origins,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics on a separate port, never exposed publicly.
	health := observability.NewHealthChecker(db.DB(), sessions.Client())
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", health.Liveness)
	healthMux.HandleFunc("/readyz", health.Readiness)
	healthMux.Handle("/metrics", metrics.Handler())
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}
	go func() {
		logger.WithField("port", cfg.Server.HealthPort).Info("Health endpoints listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Health server failed")
		}
	}()

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		renderer.Close()
		return nil
	})
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		return sessions.Close()
	})
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		return db.Close()
	})

	go func() {
		logger.WithField("addr", httpServer.Addr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
