package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dbPingTimeout         = 5 * time.Second
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = 30 * time.Minute
	poolMaxConnIdleTime   = 5 * time.Minute
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errFailedParseDatabaseConfig(err)
	}

	poolConfig.HealthCheckPeriod = poolHealthCheckPeriod
	poolConfig.MaxConnLifetime = poolMaxConnLifetime
	poolConfig.MaxConnIdleTime = poolMaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errFailedCreateConnectionPool(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errFailedPingDatabase(err)
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
