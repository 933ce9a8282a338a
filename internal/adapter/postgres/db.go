package postgres

import (
	"context"
	"fmt"
	"time"

	"nbrb-service/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const maxConnectAttempts = 5

func InitDBPool(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}

	var pool *pgxpool.Pool
	for i := 0; i < maxConnectAttempts; i++ {
		logger.Infof("DB connection attempt #%d", i+1)

		pool, err = connect(ctx, poolConfig)
		if err == nil {
			logger.Infof("successfully connected to DB on attempt #%d", i+1)
			return pool, nil
		}
		logger.Warnf("failed to connect to DB on attempt #%d: %v", i+1, err)

		if i < maxConnectAttempts-1 {
			wait := time.Second * time.Duration(i+1)
			logger.Infof("waiting %s before next attempt", wait)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	return nil, fmt.Errorf("failed to connect to DB after %d attempts: %w", maxConnectAttempts, err)
}

func connect(ctx context.Context, poolConfig *pgxpool.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
