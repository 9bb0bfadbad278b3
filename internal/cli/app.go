package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"artha/internal/backend"
	"artha/internal/config"
	"artha/internal/services"
	"artha/internal/store"
)

// App holds the services a command needs.
type App struct {
	Expenses  *services.ExpenseService
	Analytics *services.AnalyticsService
	closers   []func() error
}

// Opener builds the App when a command runs, so --help never touches the store.
type Opener func(ctx context.Context) (*App, error)

// NewApp wires the services over st; writes invalidate cached analytics.
func NewApp(st store.Store, publisher services.DayPublisher, cfg services.AnalyticsConfig) *App {
	analytics := services.NewAnalyticsService(st, cfg)
	expenses := services.NewExpenseService(st, publisher)
	expenses.OnChange(analytics.Invalidate)
	return &App{Expenses: expenses, Analytics: analytics}
}

// Close releases everything registered with the App.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DefaultOpener reads the environment, opens the configured store and
// connects to AMQP when enabled. Logs go to stderr at warn unless LOG_LEVEL is set.
func DefaultOpener(ctx context.Context) (*App, error) {
	LoadEnvFile()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger := SetupLogger(os.Stderr, level)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DataBackend, err)
	}

	client := ConnectAMQP(logger, cfg)
	app := NewApp(res.Store, Publisher(client), services.AnalyticsConfig{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Logger:    logger.Logger,
	})
	app.closers = append(app.closers, res.Close)
	if client != nil {
		app.closers = append(app.closers, client.Close)
	}
	return app, nil
}
