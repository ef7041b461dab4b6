// Package bootstrap opens the storage and cache backends the server and the
// scheduler share.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/lab-loan-engine/internal/config"
	"github.com/segyhp/lab-loan-engine/internal/reminder"
	"github.com/segyhp/lab-loan-engine/internal/repository"
	"github.com/segyhp/lab-loan-engine/internal/repository/memory"
)

// reminderRetention keeps a Redis reminder claim alive past the due date.
const reminderRetention = 7 * 24 * time.Hour

// Storage bundles the repositories of one storage driver.
type Storage struct {
	// DB is nil under the memory driver
	DB            *sqlx.DB
	Labs          repository.LabRepository
	Equipment     repository.EquipmentRepository
	Loans         repository.LoanRepository
	Users         repository.UserRepository
	Notifications repository.NotificationRepository
}

// OpenStorage connects to PostgreSQL or builds an in-process store,
// depending on the configured driver.
func OpenStorage(cfg *config.Config) (*Storage, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		return &Storage{
			Labs:          store.Labs(),
			Equipment:     store.Equipment(),
			Loans:         store.Loans(),
			Users:         store.Users(),
			Notifications: store.Notifications(),
		}, nil
	case config.DriverPostgres:
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

		return &Storage{
			DB:            db,
			Labs:          repository.NewLabRepository(db),
			Equipment:     repository.NewEquipmentRepository(db),
			Loans:         repository.NewLoanRepository(db),
			Users:         repository.NewUserRepository(db),
			Notifications: repository.NewNotificationRepository(db),
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// OpenRedis returns nil when Redis is disabled. An unreachable server is
// logged, not fatal: the client reconnects on its own.
func OpenRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Health.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable at startup", "addr", cfg.Redis.Addr, "error", err)
	}
	return client
}

// ReminderGuard picks how repeated reminders are suppressed. With Redis
// disabled the claims only hold within this process.
func ReminderGuard(cfg *config.Config, client *redis.Client) reminder.Guard {
	if !cfg.ShouldDedupReminders() {
		return reminder.Always{}
	}
	if client == nil {
		return reminder.NewMemoryGuard()
	}
	return reminder.NewRedisGuard(client, reminderRetention)
}
