package db_conn

import (
	"context"
	"fmt"
	"time"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/config"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = 5 * time.Second

// NewPool opens a connection pool sized from config and verifies the
// database is reachable before returning it.
func NewPool(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	maxConns := int32(cfg.PoolMaxConns)
	if maxConns <= 0 {
		maxConns = 20
	}
	minConns := int32(cfg.PoolMinConns)
	if minConns < 0 || minConns > maxConns {
		minConns = 0
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MinConns = minConns
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	log.Info(logger.Entry{
		Action: "db_connected",
		Message: fmt.Sprintf("connected to %s:%d/%s (pool max %d)",
			cfg.Host, cfg.Port, cfg.Database, maxConns),
	})

	return pool, nil
}

// Close shuts the pool down with logging
func Close(pool *pgxpool.Pool, log *logger.Logger) {
	if pool != nil {
		pool.Close()
		log.Info(logger.Entry{Action: "db_closed", Message: "database pool closed"})
	}
}
