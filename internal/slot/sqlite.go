package slot

import (
	"database/sql"
	"errors"
	"fmt"
)

// SQLite stores slots in the slots table of the service database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite creates a slot store backed by db.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Get returns the value of a slot.
func (s *SQLite) Get(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.QueryRow("SELECT value FROM slots WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", name, err)
	}
	return value, nil
}

// Put overwrites the value of a slot.
func (s *SQLite) Put(name string, value []byte) error {
	if err := checkName(name); err != nil {
		return err
	}

	if _, err := s.db.Exec(
		`INSERT INTO slots (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		name, value,
	); err != nil {
		return fmt.Errorf("writing slot %s: %w", name, err)
	}
	return nil
}
