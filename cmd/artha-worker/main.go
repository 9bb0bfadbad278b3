package main

import (
	"context"
	"os"

	"artha/internal/cli"
	"artha/internal/log"
	"artha/internal/sheets"
	"artha/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	bootstrap := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(os.Stdout, cfg.LogLevel).WithComponent(log.ComponentWorker)
	logger.Info("Starting artha-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	res := cli.OpenBackend(context.Background(), logger.WithComponent(log.ComponentBackend), cfg)
	defer func() { _ = res.Close() }()

	var mirror sheets.DayMirror
	if cfg.MirrorEnabled() {
		client, err := cli.OpenSheet(context.Background(), cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror enabled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	} else {
		logger.Info("Google Sheets mirror disabled, day messages will be acknowledged only")
	}

	amqpClient := cli.ConnectAMQP(logger, cfg)
	if amqpClient == nil {
		logger.Error("Failed to connect to AMQP broker")
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(context.Context) {
		if err := amqpClient.Close(); err != nil {
			logger.Error("Failed to close AMQP client", "error", err)
		}
	})

	w := worker.NewMirrorWorker(res.Store, mirror)
	if err := w.Run(ctx, amqpClient); err != nil {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("artha-worker stopped")
}
