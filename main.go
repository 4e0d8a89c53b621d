package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/exp/slog"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
	}))

	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded", "error", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := NewPostgreSQLDatabase(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to init the database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	mailer := NewMailer(cfg)

	var events Publisher = LogPublisher{}
	if cfg.RabbitURL != "" {
		pub, err := NewAMQPPublisher(cfg.RabbitURL, cfg.Exchange)
		if err != nil {
			slog.Error("Failed to connect the event publisher", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		events = pub

		worker := NewNotificationWorker(cfg, mailer)
		if err := worker.Connect(); err != nil {
			slog.Error("Failed to connect the notification worker", "error", err)
			os.Exit(1)
		}
		defer worker.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			if err := worker.Run(ctx); err != nil {
				slog.Error("Notification worker stopped", "error", err)
			}
		}()
	}

	tokens := NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	server := NewAPIServer(cfg, db, tokens, events)
	if err := server.Run(); err != nil {
		slog.Error("Server run error", "error", err)
		os.Exit(1)
	}
}
