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

	"github.com/DanielPopoola/booking-paypal-capture/internal/application/services"
	"github.com/DanielPopoola/booking-paypal-capture/internal/config"
	"github.com/DanielPopoola/booking-paypal-capture/internal/infrastructure/cache"
	"github.com/DanielPopoola/booking-paypal-capture/internal/infrastructure/paypal"
	"github.com/DanielPopoola/booking-paypal-capture/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/booking-paypal-capture/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/booking-paypal-capture/internal/interfaces/rest/middleware"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting paypal capture service",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"paypal_base_url", cfg.PayPalBaseURL(),
		"log_level", cfg.Logger.Level,
	)

	if _, err := handlers.LoadOpenAPI(context.Background()); err != nil {
		logger.Error("invalid openapi document", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := cache.Connect(ctx, &cfg.Redis, logger)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	tokenCache := cache.NewRedisTokenCache(rdb, cfg.Redis.KeyPrefix)

	bookingRepo := postgres.NewBookingRepository(db)
	credentialRepo := postgres.NewCredentialRepository(db)
	recorder := postgres.NewCaptureRecorder(postgres.NewTransactionCoordinator(db), logger)

	providers := paypal.NewFactory(cfg, tokenCache, recorder, logger)

	captureService := services.NewCaptureService(bookingRepo, credentialRepo, providers, logger)

	h := handlers.NewHandlers(
		captureService,
		map[string]handlers.Pinger{
			"postgres": db,
			"redis":    tokenCache,
		},
		cfg.IsProduction(),
		logger,
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
