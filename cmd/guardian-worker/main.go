package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"guardian/internal/amqp"
	"guardian/internal/config"
	"guardian/internal/log"
	"guardian/internal/notify"
	"guardian/internal/services"
	gsheet "guardian/internal/sheets/google"
	"guardian/internal/storage"
	"guardian/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     slog.LevelInfo,
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	logger.Info("Starting guardian-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	sender, err := notify.NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		logger.Error("Failed to initialize Telegram sender", "error", err)
		os.Exit(1)
	}
	notifyWorker := worker.NewNotifyWorker(sender)

	// Report export is optional and needs a configured spreadsheet.
	var reportWorker *worker.ReportWorker
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gsheet.NewFromEnv(context.Background(), cfg.GoogleSpreadsheetID, cfg.ReportSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		guardian := services.NewGuardianService(repo, nil, cfg.ComfortZoneThreshold)
		reportWorker = worker.NewReportWorker(repo, guardian, sheetsClient, cfg.ReportInterval)
		logger.Info("Report export enabled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"interval", cfg.ReportInterval)
	} else {
		logger.Info("Report export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	if err := worker.Run(ctx, amqpClient, notifyWorker, reportWorker); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
