package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/segyhp/lab-loan-engine/internal/auth"
	"github.com/segyhp/lab-loan-engine/internal/bootstrap"
	"github.com/segyhp/lab-loan-engine/internal/config"
	"github.com/segyhp/lab-loan-engine/internal/handler"
	"github.com/segyhp/lab-loan-engine/internal/service"
	"github.com/segyhp/lab-loan-engine/pkg/logger"
	"github.com/segyhp/lab-loan-engine/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	response.HideInternalErrors(cfg.IsProduction())

	// Initialize storage
	storage, err := bootstrap.OpenStorage(cfg)
	if err != nil {
		appLogger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	// Initialize Redis
	ctx := context.Background()
	redisClient := bootstrap.OpenRedis(ctx, cfg, appLogger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize services
	notifier := service.NewNotifier(storage.Notifications)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authService := service.NewAuthService(storage.Users, storage.Labs, tokens, appLogger)
	labService := service.NewLabService(storage.Labs)
	equipmentService := service.NewEquipmentService(storage.Equipment, storage.Labs)
	loanService := service.NewLoanService(storage.Loans, storage.Equipment, storage.Labs, storage.Users, notifier, appLogger)
	sweepService := service.NewSweepService(storage.Loans, storage.Equipment, notifier,
		bootstrap.ReminderGuard(cfg, redisClient), cfg.Business.ReminderWindowDays, appLogger)
	userService := service.NewUserService(storage.Users)
	notificationService := service.NewNotificationService(storage.Notifications)

	if err := authService.SeedAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		appLogger.Error("failed to seed administrator", "error", err)
		os.Exit(1)
	}

	// Setup routes
	paging := handler.Paging{DefaultSize: cfg.Business.DefaultPageSize, MaxSize: cfg.Business.MaxPageSize}
	router := handler.NewRouter(handler.Handlers{
		Health:        newHealthHandler(cfg, storage, redisClient),
		Auth:          handler.NewAuthHandler(authService),
		Labs:          handler.NewLabHandler(labService),
		Equipment:     handler.NewEquipmentHandler(equipmentService, paging),
		Loans:         handler.NewLoanHandler(loanService, sweepService, paging),
		Users:         handler.NewUserHandler(userService, paging),
		Notifications: handler.NewNotificationHandler(notificationService, paging),
	}, authService, appLogger)

	// Start server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("server starting", "addr", server.Addr, "driver", cfg.Database.Driver, "env", cfg.Server.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server forced to shutdown", "error", err)
	}

	appLogger.Info("server exited")
}

// newHealthHandler keeps nil dependencies as untyped nils so readiness skips them.
func newHealthHandler(cfg *config.Config, storage *bootstrap.Storage, client *redis.Client) *handler.HealthHandler {
	var db handler.DBPinger
	if storage.DB != nil {
		db = storage.DB
	}
	var cache redis.Cmdable
	if client != nil {
		cache = client
	}
	return handler.NewHealthHandler(db, cache, cfg.Health.Timeout)
}
