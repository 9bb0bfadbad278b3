package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"artha/internal/cache"
	"artha/internal/cli"
	apphttp "artha/internal/http"
	"artha/internal/log"
	"artha/internal/services"
)

func main() {
	cli.LoadEnvFile()

	bootstrap := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(os.Stdout, cfg.LogLevel)

	ctx := context.Background()
	res := cli.OpenBackend(ctx, logger.WithComponent(log.ComponentBackend), cfg)
	amqpClient := cli.ConnectAMQP(logger, cfg)

	caches := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	caches.StartCleanup(cfg.CacheTTL)

	app := cli.NewApp(res.Store, cli.Publisher(amqpClient), services.AnalyticsConfig{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Caches:    caches,
		Logger:    logger.WithComponent(log.ComponentAnalytics).Logger,
	})

	srv := apphttp.NewServer(apphttp.ServerConfig{
		Addr:            ":" + cfg.Port,
		RateLimitPerMin: cfg.RateLimitPerMin,
		StoreTimeout:    cfg.StoreTimeout,
		Ready:           res.Ping,
		Logger:          logger,
	}, app.Expenses, app.Analytics)

	shutdownCtx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		caches.Stop()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("Failed to close AMQP client", "error", err)
			}
		}
		if err := res.Close(); err != nil {
			logger.Error("Failed to close record store", "error", err)
		}
	})

	logger.Info("Starting artha server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"amqp_enabled", amqpClient != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
