package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"flazz/internal/backend"
	"flazz/internal/cli"
	"flazz/internal/core"
	"flazz/internal/export"
	apphttp "flazz/internal/http"
	applog "flazz/internal/log"
	"flazz/internal/services"

	"golang.org/x/sync/errgroup"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext()
	defer stop()

	// One ledger, one card account; state lives only as long as the process
	ledger := core.NewLedger(cfg.LedgerName)
	account, err := ledger.CreateAccount(cfg.AccountID, cfg.AccountHolder, cfg.Initial())
	if err != nil {
		logger.Error("Failed to create card account", applog.FieldError, err, applog.FieldAccountID, cfg.AccountID)
		os.Exit(1)
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	backends, err := backend.NewFactory(logger).Create(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backends", applog.FieldError, err)
		os.Exit(1)
	}

	inbox := services.NewInbox(20, services.LogNotifier{Logger: logger})
	svc, err := services.NewCardService(ledger, account, services.Options{
		Exporters:     backends.Exporters,
		DefaultFormat: export.Format(cfg.DefaultExport),
		ExportDir:     cfg.ExportDir,
		Publisher:     backends.Publisher,
		Notifier:      inbox,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("Failed to create card service", applog.FieldError, err)
		os.Exit(1)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close card service", applog.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(cfg.Addr(), svc, inbox, logger)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting flazz server",
			applog.FieldOperation, applog.OpStartup,
			"addr", cfg.Addr(),
			applog.FieldAccountID, account.ID,
			"ledger", ledger.Name,
			"formats", len(svc.Formats()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "addr", cfg.Addr())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully",
		applog.FieldOperation, applog.OpShutdown,
		applog.FieldBalance, account.Balance().StringFixed(2),
		applog.FieldHistoryLen, account.Len())
}
