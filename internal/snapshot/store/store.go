// Package store keeps snapshots in a SQL table, one row per key.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/cashtrack/internal/database"
	"github.com/MrJamesThe3rd/cashtrack/internal/snapshot"
)

const schema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)
`

type Store struct {
	db     *sql.DB
	driver string
}

func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Migrate creates the snapshots table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating snapshots table: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value string

	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT value FROM snapshots WHERE key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, snapshot.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}

	return []byte(value), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO snapshots (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, s.rebind(query), key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}

	return nil
}

func (s *Store) rebind(query string) string {
	return database.Rebind(s.driver, query)
}
