package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS formulas (
	id         TEXT PRIMARY KEY,
	expression TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// ErrNotStored reports a Get for an id with no stored formula.
var ErrNotStored = errors.New("formula not stored")

// Store persists formula sources in a SQLite database. Formulas are stored
// as source text only and recompiled on load.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) a formula store at the given DSN. Pass a
// file path, or ":memory:" for a throwaway store.
func OpenStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	// WAL mode for concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set WAL mode: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores the expression under id, replacing any previous one.
func (s *Store) Put(ctx context.Context, id, expression string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO formulas (id, expression, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET expression = excluded.expression, updated_at = excluded.updated_at`,
		id, expression, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store: put %q: %w", id, err)
	}
	return nil
}

// Get returns the stored expression for id, or ErrNotStored.
func (s *Store) Get(ctx context.Context, id string) (string, error) {
	var expr string
	err := s.db.QueryRowContext(ctx,
		`SELECT expression FROM formulas WHERE id = ?`, id,
	).Scan(&expr)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("store: get %q: %w", id, ErrNotStored)
	}
	if err != nil {
		return "", fmt.Errorf("store: get %q: %w", id, err)
	}
	return expr, nil
}

// Delete removes the stored formula for id and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM formulas WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("store: delete %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: delete %q: %w", id, err)
	}
	return n > 0, nil
}

// All returns every stored formula as id to expression source.
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, expression FROM formulas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, expr string
		if err := rows.Scan(&id, &expr); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		out[id] = expr
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return out, nil
}

// LoadInto compiles every stored formula into reg. Entries that no longer
// parse are skipped and reported in the joined error.
func (s *Store) LoadInto(ctx context.Context, reg *Registry) error {
	all, err := s.All(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for id, expr := range all {
		if err := reg.Register(id, expr); err != nil {
			errs = append(errs, fmt.Errorf("formula %q: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// SaveFrom persists every formula currently registered in reg.
func (s *Store) SaveFrom(ctx context.Context, reg *Registry) error {
	for id, src := range reg.Sources() {
		if err := s.Put(ctx, id, src); err != nil {
			return err
		}
	}
	return nil
}
