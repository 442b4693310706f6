package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"vestiga-portal/internal/applications"
	"vestiga-portal/internal/config"
	"vestiga-portal/internal/notify"
	"vestiga-portal/internal/redis"
	"vestiga-portal/internal/sheets"
	"vestiga-portal/internal/whatsapp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Sheets.SpreadsheetID == "" {
		slog.Error("worker requires Google Sheets configuration: GOOGLE_SHEETS_SPREADSHEET_ID not set")
		os.Exit(1)
	}

	repo, cleanup, err := newRepository(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize storage", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	sheetsService, err := sheets.NewService(ctx, cfg.Sheets.CredentialsPath, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range)
	if err != nil {
		slog.Error("failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	whatsappClient := whatsapp.NewClient(
		cfg.WhatsApp.BaseURL, cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.VerifyToken)

	redisClient := redis.NewClient(cfg.RedisURL)

	consumer := notify.NewConsumer(redisClient.Client, repo, sheetsService, whatsappClient)
	consumer.Start(ctx)

	slog.Info("worker stopped")
}

func newRepository(ctx context.Context, cfg *config.Config) (applications.Repository, func(), error) {
	switch cfg.Storage {
	case "sqlite":
		repo, err := applications.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Close() }, nil
	case "memory":
		return applications.NewInMemoryRepository(), func() {}, nil
	default:
		repo, err := applications.NewPostgresRepository(ctx, cfg.ConnString)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	}
}
