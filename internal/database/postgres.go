package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/pkg/utils"
)

// MaxConnectAttempts bounds how long NewPostgres waits for the database.
const MaxConnectAttempts = 15

// Options tune the connection.
type Options struct {
	SQLLog       bool
	MaxOpenConns int
	MaxIdleConns int
}

// pool is the part of *sql.DB a connection attempt needs.
type pool interface {
	PingContext(ctx context.Context) error
	Close() error
}

// ping checks a freshly opened pool and closes it if the server does not
// answer, so failed attempts leave no connections behind.
func ping(ctx context.Context, p pool) error {
	err := p.PingContext(ctx)
	if err == nil {
		return nil
	}
	if cerr := p.Close(); cerr != nil {
		utils.Log.Debug("Failed to close connection pool", zap.Error(cerr))
	}
	return err
}

// NewPostgres connects to PostgreSQL, retrying with exponential backoff
// (capped at 10s between attempts) until the server answers a ping.
func NewPostgres(ctx context.Context, dsn string, opts Options) (*gorm.DB, error) {
	level := logger.Warn
	if opts.SQLLog {
		level = logger.Info
	}

	utils.Log.Info("Attempting to connect to database...")

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = 10 * time.Second
	policy.MaxElapsedTime = 0

	var db *gorm.DB
	attempt := 0
	connect := func() error {
		attempt++
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(level),
		})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		return ping(ctx, sqlDB)
	}

	err := backoff.RetryNotify(connect,
		backoff.WithContext(backoff.WithMaxRetries(policy, MaxConnectAttempts-1), ctx),
		func(err error, d time.Duration) {
			utils.Log.Warn("Database connection attempt failed",
				zap.Int("attempt", attempt), zap.Duration("retry_in", d), zap.Error(err))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempt, err)
	}

	sqlDB, _ := db.DB()
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	utils.Log.Info("Database connected", zap.Int("attempt", attempt))
	return db, nil
}

// AutoMigrateTables creates or updates the tables of the given models.
func AutoMigrateTables(db *gorm.DB, models ...interface{}) error {
	utils.Log.Info("Running database migrations...")

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	utils.Log.Info("Database migrations completed")
	return nil
}

// Migrate brings every Athlos table up to date.
func Migrate(db *gorm.DB) error {
	return AutoMigrateTables(db, models.All()...)
}
