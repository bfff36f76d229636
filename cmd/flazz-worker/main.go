package main

import (
	"context"
	"errors"
	"os"

	"flazz/internal/cli"
	eventsamqp "flazz/internal/events/amqp"
	"flazz/internal/export/google"
	applog "flazz/internal/log"
	"flazz/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentWorker)
	logger.Info("Starting flazz-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.SheetsEnabled() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required to mirror transactions")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	sheets, err := google.New(ctx, google.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "sheet", cfg.GoogleSheetName)

	mirror := worker.NewMirrorWorker(sheets, cfg.AccountID, logger)

	err = eventsamqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger, mirror.HandleTransaction)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
