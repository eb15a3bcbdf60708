package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDriver is the database/sql driver name registered by go-sqlite3.
const SQLiteDriver = "sqlite3"

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id         TEXT NOT NULL PRIMARY KEY,
		event_date TEXT NOT NULL,
		title      TEXT NOT NULL,
		category   TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS events_event_date_idx ON events (event_date)`,
}

const sqliteEventColumns = `id, event_date AS date, title, category, created_at, updated_at`

// OpenSQLite opens the database file at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, SQLiteDriver, path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := RunSQLiteMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// RunSQLiteMigrations creates the events schema if it is missing.
func RunSQLiteMigrations(ctx context.Context, db *sqlx.DB) error {
	for _, m := range sqliteMigrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("sqlite migration: %w", err)
		}
	}
	return nil
}

// sqliteEventRepo implements EventRepository on SQLite.
type sqliteEventRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func (r *sqliteEventRepo) clock() time.Time {
	if r.now != nil {
		return r.now().UTC()
	}
	return time.Now().UTC()
}

func (r *sqliteEventRepo) List(ctx context.Context) ([]Event, error) {
	defer observeDB(ctx, "events.list")()
	list := []Event{}
	err := r.db.SelectContext(ctx, &list, `SELECT `+sqliteEventColumns+` FROM events ORDER BY event_date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return list, nil
}

func (r *sqliteEventRepo) Get(ctx context.Context, id string) (*Event, error) {
	defer observeDB(ctx, "events.get")()
	var event Event
	err := r.db.GetContext(ctx, &event, `SELECT `+sqliteEventColumns+` FROM events WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

func (r *sqliteEventRepo) Create(ctx context.Context, event Event) (*Event, error) {
	defer observeDB(ctx, "events.create")()
	now := r.clock()
	event.ID = uuid.NewString()
	event.CreatedAt = now
	event.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, event_date, title, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.ID, event.Date, event.Title, event.Category, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &event, nil
}

func (r *sqliteEventRepo) Update(ctx context.Context, event Event) (*Event, error) {
	defer observeDB(ctx, "events.update")()
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE events SET event_date = ?, title = ?, category = ?, updated_at = ?
		WHERE id = ?
	`, event.Date, event.Title, event.Category, r.clock(), event.ID)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	var updated Event
	if err := tx.GetContext(ctx, &updated, `SELECT `+sqliteEventColumns+` FROM events WHERE id = ?`, event.ID); err != nil {
		return nil, fmt.Errorf("reload event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return &updated, nil
}

func (r *sqliteEventRepo) Delete(ctx context.Context, id string) error {
	defer observeDB(ctx, "events.delete")()
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
