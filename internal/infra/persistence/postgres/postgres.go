// Package postgres implements the credential store on PostgreSQL through gorm.
package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"orienteer/config"
	"orienteer/internal/domain/lifecycle"
	"orienteer/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	poolWatchInterval      = 5 * time.Second
	poolWaitWarnThreshold  = 50 * time.Millisecond
	dbStatsCollectorDBName = "orienteer"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config   *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry `optional:"true"`
}

// New opens the credential store and binds ping, pool watching and close to the fx lifecycle.
func New(params Params) (*gorm.DB, error) {
	if params.Config.Postgres == nil {
		return nil, errors.New("postgres must be configured")
	}

	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	// Multi-row writes go through TransactionManager or db.Transaction explicitly.
	db = db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	if params.Registry != nil {
		if err := params.Registry.Register(collectors.NewDBStatsCollector(sqlDB, dbStatsCollectorDBName)); err != nil {
			return nil, errors.Wrap(err, "failed to register PostgreSQL pool metrics")
		}
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}

			go watchPoolWaits(watchCtx, params.Logger, sqlDB, poolWatchInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			stopWatch()

			return sqlDB.Close()
		},
	})

	return db, nil
}

// Ping returns a health probe for the connection pool.
func Ping(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return errors.WithStack(err)
		}

		return errors.WithStack(sqlDB.PingContext(ctx))
	}
}

// watchPoolWaits logs whenever requests had to wait for a pooled connection.
// Waits over poolWaitWarnThreshold per interval are warnings.
func watchPoolWaits(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	if logger == nil || sqlDB == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := sqlDB.Stats()
			waits := now.WaitCount - last.WaitCount
			waited := now.WaitDuration - last.WaitDuration
			last = now

			if waits <= 0 {
				continue
			}

			level := slog.LevelDebug
			if waited >= poolWaitWarnThreshold {
				level = slog.LevelWarn
			}
			logger.LogAttrs(ctx, level, "Postgres pool wait",
				slog.Int64("waits", waits),
				slog.Duration("waited", waited),
				slog.Int("inUse", now.InUse),
				slog.Int("maxOpen", now.MaxOpenConnections),
			)
		}
	}
}
