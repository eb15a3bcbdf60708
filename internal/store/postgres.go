package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgQuerier is the subset of pgxpool.Pool the event repository needs.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const pgEventColumns = `id, to_char(event_date, 'YYYY-MM-DD') AS date, title, category, created_at, updated_at`

// pgEventRepo implements EventRepository on PostgreSQL.
type pgEventRepo struct {
	pool pgQuerier
}

func (r *pgEventRepo) List(ctx context.Context) ([]Event, error) {
	defer observeDB(ctx, "events.list")()
	rows, err := r.pool.Query(ctx, `SELECT `+pgEventColumns+` FROM events ORDER BY event_date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[Event])
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return list, nil
}

func (r *pgEventRepo) Get(ctx context.Context, id string) (*Event, error) {
	defer observeDB(ctx, "events.get")()
	rows, err := r.pool.Query(ctx, `SELECT `+pgEventColumns+` FROM events WHERE id=$1`, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return collectOne(rows)
}

func (r *pgEventRepo) Create(ctx context.Context, event Event) (*Event, error) {
	defer observeDB(ctx, "events.create")()
	event.ID = uuid.NewString()
	rows, err := r.pool.Query(ctx, `INSERT INTO events (id, event_date, title, category)
VALUES ($1, $2::date, $3, $4)
RETURNING `+pgEventColumns, event.ID, event.Date, event.Title, event.Category)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return collectOne(rows)
}

func (r *pgEventRepo) Update(ctx context.Context, event Event) (*Event, error) {
	defer observeDB(ctx, "events.update")()
	rows, err := r.pool.Query(ctx, `UPDATE events
SET event_date=$2::date, title=$3, category=$4, updated_at=NOW()
WHERE id=$1
RETURNING `+pgEventColumns, event.ID, event.Date, event.Title, event.Category)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return collectOne(rows)
}

func (r *pgEventRepo) Delete(ctx context.Context, id string) error {
	defer observeDB(ctx, "events.delete")()
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectOne(rows pgx.Rows) (*Event, error) {
	event, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Event])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &event, nil
}
