package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/segyhp/lab-loan-engine/internal/bootstrap"
	"github.com/segyhp/lab-loan-engine/internal/config"
	"github.com/segyhp/lab-loan-engine/internal/service"
	"github.com/segyhp/lab-loan-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	appLogger.Info("starting loan scheduler", "spec", cfg.Scheduler.Spec, "timezone", cfg.Scheduler.Timezone)

	if cfg.Database.Driver == config.DriverMemory {
		appLogger.Warn("memory driver selected: the scheduler sweeps its own empty store, not the server's")
	}

	storage, err := bootstrap.OpenStorage(cfg)
	if err != nil {
		appLogger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := bootstrap.OpenRedis(ctx, cfg, appLogger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	sweep := service.NewSweepService(
		storage.Loans,
		storage.Equipment,
		service.NewNotifier(storage.Notifications),
		bootstrap.ReminderGuard(cfg, redisClient),
		cfg.Business.ReminderWindowDays,
		appLogger,
	)

	// Initialize cron scheduler
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(cfg.GetSchedulerLocation()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	if err := setupCronJobs(ctx, c, cfg, sweep, appLogger); err != nil {
		appLogger.Error("failed to schedule sweep", "error", err)
		os.Exit(1)
	}

	// Start the scheduler
	c.Start()
	appLogger.Info("scheduler started")

	<-ctx.Done()

	appLogger.Info("shutting down scheduler")
	<-c.Stop().Done()
	appLogger.Info("scheduler stopped")
}

func setupCronJobs(ctx context.Context, c *cron.Cron, cfg *config.Config, sweep *service.SweepService, appLogger *slog.Logger) error {
	_, err := c.AddFunc(cfg.Scheduler.Spec, func() {
		appLogger.Info("running loan expiration sweep")
		if _, err := sweep.Run(ctx); err != nil {
			appLogger.Error("loan expiration sweep failed", "error", err)
		}
	})
	return err
}
