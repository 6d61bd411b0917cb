package data

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kerbaras/mangadesk/pkg/bundle"
	_ "github.com/marcboeker/go-duckdb/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS bundles (
	scope VARCHAR NOT NULL,
	key   VARCHAR NOT NULL,
	value VARCHAR NOT NULL,
	PRIMARY KEY (scope, key)
)`

func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Repository persists screen bundles, one row per (scope, key).
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// OpenRepository opens (or creates) the database at path.
func OpenRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// LoadBundle returns the bundle saved under scope. A scope that was never saved
// yields an empty bundle.
func (r *Repository) LoadBundle(scope string) (*bundle.Bundle, error) {
	rows, err := r.db.Query(`SELECT key, value FROM bundles WHERE scope = ?`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load bundle %q: %w", scope, err)
	}
	defer rows.Close()

	values := map[string]json.RawMessage{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan bundle %q: %w", scope, err)
		}
		values[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	b := bundle.New()
	b.Restore(values)
	return b, nil
}

// SaveBundle replaces everything stored under scope with the contents of b.
func (r *Repository) SaveBundle(scope string, b *bundle.Bundle) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM bundles WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to clear bundle %q: %w", scope, err)
	}

	for key, value := range b.Snapshot() {
		if _, err := tx.Exec(
			`INSERT INTO bundles (scope, key, value) VALUES (?, ?, ?)`,
			scope, key, string(value),
		); err != nil {
			return fmt.Errorf("failed to save bundle key %q: %w", key, err)
		}
	}

	return tx.Commit()
}

func (r *Repository) DeleteBundle(scope string) error {
	if _, err := r.db.Exec(`DELETE FROM bundles WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to delete bundle %q: %w", scope, err)
	}
	return nil
}
