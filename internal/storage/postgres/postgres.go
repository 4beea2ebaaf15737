// Package postgres stores saves in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/codemon/internal/config"
	"github.com/cory-johannsen/codemon/internal/storage"
)

// ErrSchemaMissing is returned by Open when the saves table does not exist.
var ErrSchemaMissing = errors.New("saves table missing; run cmd/migrate")

// Connect opens a pool sized by cfg and pings the server once.
//
// Postcondition: Returns a connected pool or a non-nil error; no pool is
// leaked on error.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "codemon"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// Open connects and returns a SaveRepository once the saves table is present.
//
// Postcondition: Errors are *storage.PersistenceError with Op "open".
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*SaveRepository, error) {
	start := time.Now()
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, storage.Wrap("open", "", err)
	}

	var present bool
	if err := pool.QueryRow(ctx, `SELECT to_regclass('saves') IS NOT NULL`).Scan(&present); err != nil {
		pool.Close()
		return nil, storage.Wrap("open", "", fmt.Errorf("checking schema: %w", err))
	}
	if !present {
		pool.Close()
		return nil, storage.Wrap("open", "", ErrSchemaMissing)
	}

	logger.Info("postgres save store opened",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name),
		zap.Duration("elapsed", time.Since(start)),
	)
	return NewSaveRepository(pool, logger), nil
}

// Ping reports whether the database answers within timeout.
//
// Precondition: The repository must not be closed.
func (r *SaveRepository) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.pool.Ping(ctx)
}
