package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"outlay/internal/amqp"
	"outlay/internal/cli"
	gsheet "outlay/internal/sheets/google"
	"outlay/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting outlay-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.MirrorEnabled() {
		logger.Error("Worker requires the mirror pipeline - set AMQP_URL and GOOGLE_SPREADSHEET_ID")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	sheetsClient, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirrorWorker := worker.NewMirrorWorker(repo, sheetsClient, cfg.MirrorBatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catch up on anything that was saved while the worker was down.
	logger.Info("Performing startup mirror check")
	if err := mirrorWorker.ProcessPending(ctx); err != nil {
		logger.Error("Startup mirror check failed", "error", err)
		// Don't exit - the sweep retries later
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := amqpClient.ConsumeExpenseMirror(ctx, func(msg *amqp.ExpenseMirrorMessage) error {
			return mirrorWorker.HandleMirrorMessage(ctx, msg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := mirrorWorker.RunSweep(ctx, cfg.MirrorSweepInterval)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
