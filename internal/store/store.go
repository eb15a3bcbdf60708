package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

// Store aggregates the repositories backing the reference events API.
type Store struct {
	ping  func(context.Context) error
	close func() error

	Events EventRepository
}

// NewPostgres wires repositories onto a PostgreSQL pool.
func NewPostgres(pool *pgxpool.Pool) *Store {
	return &Store{
		ping: pool.Ping,
		close: func() error {
			pool.Close()
			return nil
		},
		Events: &pgEventRepo{pool: pool},
	}
}

// NewSQLite wires repositories onto a migrated SQLite database.
func NewSQLite(db *sqlx.DB) *Store {
	return &Store{
		ping:   db.PingContext,
		close:  db.Close,
		Events: &sqliteEventRepo{db: db},
	}
}

// HealthCheck verifies that the underlying database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	defer observeDB(ctx, "db.healthcheck")()
	return s.ping(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.close()
}
