// Package db stores save slots in PostgreSQL.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// maxConns bounds the pool. Saves are written by one pump and read on
// demand, so a handful of connections is plenty.
const maxConns = 4

// DB wraps a pgx connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.ConnConfig.RuntimeParams["application_name"] = "hearth"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Open runs migrations on dsn, connects and returns the save repository.
// Closing the repository closes the pool.
func Open(ctx context.Context, dsn string) (*SaveRepository, error) {
	version, err := RunMigrations(ctx, dsn)
	if err != nil {
		return nil, err
	}
	slog.Info("save schema ready", "version", version)
	d, err := New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	repo := NewSaveRepository(d.Pool())
	repo.owner = d
	return repo, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}
