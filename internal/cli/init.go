// Package cli provides common initialization shared by cmd/artha,
// cmd/artha-worker and cmd/artha-cli, plus the cobra command tree.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"artha/internal/amqp"
	"artha/internal/backend"
	"artha/internal/config"
	"artha/internal/log"
	"artha/internal/services"
)

// SetupLogger builds a text logger at the given level and installs it as the
// slog default.
func SetupLogger(out io.Writer, level string) *log.Logger {
	lvl := log.ParseLevel(level)
	logger := log.New(log.Config{
		Level:     lvl,
		Component: log.ComponentApp,
		Handler:   slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl}),
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenBackend creates the configured record store.
// Returns the backend or exits the process on failure.
func OpenBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize record store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return res
}

// ConnectAMQP returns a client when AMQP_URL is set. A broker that cannot be
// reached is logged and treated as disabled.
func ConnectAMQP(logger *log.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without day events", "error", err)
		return nil
	}
	logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}

// Publisher converts a possibly nil client into a DayPublisher that is nil
// when events are disabled.
func Publisher(client *amqp.Client) services.DayPublisher {
	if client == nil {
		return nil
	}
	return client
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), "operation", log.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup(shutdownCtx)
			}
			close(finished)
		}()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-finished:
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
