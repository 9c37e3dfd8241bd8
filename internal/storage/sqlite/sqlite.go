// Package sqlite stores scraped FIX dictionaries in a SQLite database, one row
// per (version, tag).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pfrederiksen/fix-tags/internal/dictionary"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS fields (
    version TEXT NOT NULL,
    tag INTEGER NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (version, tag)
);

CREATE INDEX IF NOT EXISTS idx_fields_name ON fields(name);
`

// DB wraps a SQLite connection holding scraped field tables
type DB struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and applies the schema
func Open(ctx context.Context, path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &DB{db: sqlDB, path: path}, nil
}

// Path returns the database location
func (d *DB) Path() string {
	return d.path
}

// Close closes the underlying connection
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveAll replaces the rows of every version in mappings. Versions not in
// mappings are left untouched.
func (d *DB) SaveAll(ctx context.Context, mappings dictionary.FixMappings) error {
	for _, version := range mappings.Versions() {
		if err := d.Save(ctx, version, mappings[version]); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces the rows for a single version inside one transaction
func (d *DB) Save(ctx context.Context, version string, mapping dictionary.VersionMapping) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM fields WHERE version = ?`, version); err != nil {
		return fmt.Errorf("clearing FIX %s: %w", version, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO fields (version, tag, name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, tag := range mapping.Tags() {
		if _, err = stmt.ExecContext(ctx, version, tag, mapping[tag]); err != nil {
			return fmt.Errorf("inserting FIX %s tag %d: %w", version, tag, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing FIX %s: %w", version, err)
	}
	return nil
}

// Lookup returns the field name for a tag. ok is false when the tag is unknown.
func (d *DB) Lookup(ctx context.Context, version string, tag int) (name string, ok bool, err error) {
	err = d.db.QueryRowContext(ctx,
		`SELECT name FROM fields WHERE version = ? AND tag = ?`, version, tag).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up FIX %s tag %d: %w", version, tag, err)
	}
	return name, true, nil
}

// Count returns the number of stored tags for a version
func (d *DB) Count(ctx context.Context, version string) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fields WHERE version = ?`, version).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting FIX %s: %w", version, err)
	}
	return n, nil
}

// Load reads all stored tags for a version
func (d *DB) Load(ctx context.Context, version string) (dictionary.VersionMapping, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT tag, name FROM fields WHERE version = ? ORDER BY tag`, version)
	if err != nil {
		return nil, fmt.Errorf("querying FIX %s: %w", version, err)
	}
	defer rows.Close()

	mapping := make(dictionary.VersionMapping)
	for rows.Next() {
		var (
			tag  int
			name string
		)
		if err := rows.Scan(&tag, &name); err != nil {
			return nil, fmt.Errorf("scanning FIX %s: %w", version, err)
		}
		mapping[tag] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading FIX %s: %w", version, err)
	}
	return mapping, nil
}
