package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"horas/internal/analytics"
	"horas/internal/auth"
	"horas/internal/backend"
	"horas/internal/cli"
	apphttp "horas/internal/http"
	"horas/internal/log"
	"horas/internal/metrics"
	"horas/internal/services"
	"horas/internal/session"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(log.New(log.DefaultConfig()).Logger)
	logger := cli.SetupLogger(cfg.LogLevel)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Slog()).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	authenticator, err := auth.New(cfg.AuthUsername, cfg.AuthPassword, cfg.AuthPasswordHash)
	if err != nil {
		logger.Error("Failed to initialize authenticator", log.FieldError, err)
		os.Exit(1)
	}

	m := metrics.New()
	svc := services.NewDashboardService(result.Reader, analytics.BuildOptions{
		KeepPaymentOnlyMonths: cfg.KeepPaymentOnlyMonths,
		HourTypes:             cfg.HourTypes,
	}, m, logger)

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Service:        svc,
		Auth:           authenticator,
		Sessions:       session.NewCodec([]byte(cfg.SessionSecret), cfg.SessionTTL, cfg.SecureCookies),
		Metrics:        m,
		Logger:         logger,
		LoginRateLimit: cfg.LoginRateLimit,
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", log.FieldError, err)
		os.Exit(1)
	}

	srv.ReadTimeout = 15 * time.Second
	srv.WriteTimeout = 90 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldOperation, log.OpShutdown, log.FieldError, err)
		}
		if err := result.Close(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting horas server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		"cache_ttl", cfg.DatasetCacheTTL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
