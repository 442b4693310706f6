package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vestiga-portal/internal/applications"
	apphandlers "vestiga-portal/internal/applications/handlers"
	"vestiga-portal/internal/config"
	"vestiga-portal/internal/notify"
	"vestiga-portal/internal/payu"
	payuhandlers "vestiga-portal/internal/payu/handlers"
	"vestiga-portal/internal/redis"
	"vestiga-portal/internal/sheets"
	sheethandlers "vestiga-portal/internal/sheets/handlers"
	"vestiga-portal/internal/whatsapp"
	wahandlers "vestiga-portal/internal/whatsapp/handlers"

	"github.com/NYTimes/gziphandler"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	repo, cleanup, err := newRepository(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize storage", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	service := applications.NewService(repo)

	redisClient := redis.NewClient(cfg.RedisURL)
	notifier := notify.NewQueueNotifier(redisClient.Client)

	payuConfig := payu.Config{
		Key:        cfg.PayU.Key,
		Salt:       cfg.PayU.Salt,
		MerchantID: cfg.PayU.MerchantID,
		BaseURL:    cfg.PayU.BaseURL,
		SuccessURL: cfg.FrontendURL + "/payment/success",
		FailureURL: cfg.FrontendURL + "/payment/failure",
	}
	builder := payu.NewRequestBuilder(payuConfig)
	verifier := payu.NewVerifier(payuConfig)
	machine := payu.NewStateMachine(repo)

	paymentHandler := payuhandlers.NewPaymentHandler(builder, verifier, machine, notifier, redisClient.Lock, payuConfig.PaymentURL())
	applicationHandler := apphandlers.NewApplicationHandler(service, notifier)
	whatsappHandler := wahandlers.NewWhatsAppHandler(whatsapp.NewClient(
		cfg.WhatsApp.BaseURL, cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.VerifyToken))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	api := e.Group("/api")

	api.POST("/applications", applicationHandler.Create)
	api.GET("/applications", applicationHandler.GetAll)
	api.DELETE("/applications/bulk", applicationHandler.DeleteMany)
	api.GET("/applications/:id", applicationHandler.GetByID)
	api.PUT("/applications/:id", applicationHandler.Update)
	api.DELETE("/applications/:id", applicationHandler.Delete)

	api.POST("/payments/initiate", paymentHandler.Initiate)
	api.POST("/payments/callback", paymentHandler.Callback)

	api.GET("/whatsapp/webhook", whatsappHandler.VerifyWebhook)
	api.POST("/whatsapp/webhook", whatsappHandler.HandleWebhook)
	api.POST("/whatsapp/send-confirmation", whatsappHandler.SendConfirmation)
	api.POST("/whatsapp/send-payment-confirmation", whatsappHandler.SendPaymentConfirmation)
	api.POST("/whatsapp/send-update", whatsappHandler.SendUpdate)

	if cfg.Sheets.SpreadsheetID != "" {
		sheetsService, err := sheets.NewService(ctx, cfg.Sheets.CredentialsPath, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range)
		if err != nil {
			slog.Error("failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		sheetsHandler := sheethandlers.NewSheetsHandler(sheetsService)
		api.POST("/sheets/add-application", sheetsHandler.AddApplication)
		api.PUT("/sheets/update-application", sheetsHandler.UpdateApplication)
		api.DELETE("/sheets/delete-application/:id", sheetsHandler.DeleteApplication)
	} else {
		slog.Warn("Google Sheets sync disabled: GOOGLE_SHEETS_SPREADSHEET_ID not set")
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: gziphandler.GzipHandler(e),
	}

	go func() {
		slog.Info("server started", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
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
