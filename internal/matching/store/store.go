package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/cashtrack/internal/database"
)

const schema = `
	CREATE TABLE IF NOT EXISTS description_mappings (
		raw_pattern TEXT NOT NULL,
		preferred_description TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)
`

type Store struct {
	db     *sql.DB
	driver string
}

func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Migrate creates the description_mappings table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating description_mappings table: %w", err)
	}

	return nil
}

// FindMatch returns the preferred description of the longest pattern
// contained in rawDescription, ignoring case. The newest mapping wins a tie.
func (s *Store) FindMatch(ctx context.Context, rawDescription string) (string, error) {
	query := `
		SELECT preferred_description
		FROM description_mappings
		WHERE LOWER(?) LIKE '%' || LOWER(raw_pattern) || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var preferred string

	err := s.db.QueryRowContext(ctx, database.Rebind(s.driver, query), rawDescription).Scan(&preferred)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding match: %w", err)
	}

	return preferred, nil
}

func (s *Store) CreateMapping(ctx context.Context, rawPattern, preferredDescription string) error {
	query := `
		INSERT INTO description_mappings (raw_pattern, preferred_description, created_at)
		VALUES (?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, database.Rebind(s.driver, query), rawPattern, preferredDescription, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}
