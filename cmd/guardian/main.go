package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"guardian/internal/amqp"
	"guardian/internal/chat"
	"guardian/internal/config"
	apphttp "guardian/internal/http"
	"guardian/internal/log"
	"guardian/internal/services"
	"guardian/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting guardian")

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

	// AMQP is optional: without it nudges are computed and returned but
	// not delivered out of band.
	var publisher services.Publisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, notifications will not be delivered", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
		}
	}

	guardian := services.NewGuardianService(repo, publisher, cfg.ComfortZoneThreshold)

	var responder chat.Responder
	if cfg.GroqAPIKey != "" {
		groq, err := chat.NewGroqResponder(chat.GroqConfig{
			APIKey:  cfg.GroqAPIKey,
			Model:   cfg.GroqModel,
			BaseURL: cfg.GroqBaseURL,
		})
		if err != nil {
			logger.Error("Failed to initialize Groq responder", "error", err)
			os.Exit(1)
		}
		responder = groq
		logger.Info("Groq responder initialized", "model", cfg.GroqModel)
	} else {
		logger.Info("No GROQ_API_KEY provided, using rule-based replies only")
	}

	sessions := chat.NewSessionStore(1000, cfg.SessionTTL, cfg.ChatHistoryTurns)
	engine := chat.NewEngine(guardian, sessions, responder)

	srv := apphttp.NewServer(":"+cfg.Port, guardian, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting guardian server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
