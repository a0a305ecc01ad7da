package session

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// loggedInKey is the fixed name the login flag is stored under.
const loggedInKey = "logged_in"

// Flag is the durable boolean mirror of "session believed active". It is
// independent storage from the credential itself and can desynchronize from
// actual server-side validity after a restart; the gateway reconciles on the
// first authorization failure.
type Flag interface {
	SetLoggedIn(ctx context.Context, v bool) error
	LoggedIn(ctx context.Context) (bool, error)
}

// StateStore persists small client-local state in a SQLite database,
// one value per fixed key.
type StateStore struct {
	db *sql.DB
}

// OpenState opens (creating if needed) the client state database at path.
// Use ":memory:" for a throwaway store.
func OpenState(path string) (*StateStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS client_state (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing state db: %w", err)
	}

	return &StateStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *StateStore) Close() error {
	return s.db.Close()
}

// SetLoggedIn records the login flag. True on successful login; false on any
// logout attempt and on authorization-failure detection.
func (s *StateStore) SetLoggedIn(ctx context.Context, v bool) error {
	value := "false"
	if v {
		value = "true"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, loggedInKey, value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", loggedInKey, err)
	}
	return nil
}

// LoggedIn reads the persisted flag. A missing row means false.
func (s *StateStore) LoggedIn(ctx context.Context) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM client_state WHERE key = ?`, loggedInKey).Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", loggedInKey, err)
	}
	return value == "true", nil
}
