package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing for the market API: listing and bidding transactions are short,
// so a modest pool with a couple of warm connections covers the load.
const (
	poolMaxConns        = 20
	poolMinConns        = 2
	poolConnLifetime    = 30 * time.Minute
	poolConnIdleTime    = 5 * time.Minute
	poolHealthCheckTick = 30 * time.Second
)

// NewPostgresPool opens a pgx pool against the market database and verifies
// connectivity before handing it out.
func NewPostgresPool(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolCfg.MaxConns = poolMaxConns
	poolCfg.MinConns = poolMinConns
	poolCfg.MaxConnLifetime = poolConnLifetime
	poolCfg.MaxConnIdleTime = poolConnIdleTime
	poolCfg.HealthCheckPeriod = poolHealthCheckTick

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// HealthCheck pings the market database with a short deadline. Backs the
// /health endpoint.
func HealthCheck(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return pool.Ping(ctx)
}
