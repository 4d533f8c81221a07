// Package sqlite provides a SQLite-backed implementation of the record
// store ports. Records are stored as JSON rows keyed by (collection,
// id), with the published flag and update timestamp denormalized into
// columns so the narrowing hint and most-recent ordering can run
// server-side.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/galeria-labs/galeria/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/galeria-labs/galeria/internal/core/domain"
	"github.com/galeria-labs/galeria/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.RecordStore  = (*Store)(nil)
	_ driven.RecordWriter = (*Store)(nil)
)

// fetchCap bounds a fetch when the caller passes no limit.
const fetchCap = 2000

// Store is a SQLite-based record store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.galeria/data/records.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".galeria", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "records.db")

	// WAL mode for better concurrency under the HTTP fan-out.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// FetchSlice returns a bounded slice from the named collection.
func (s *Store) FetchSlice(ctx context.Context, opts domain.FetchOptions) ([]domain.Record, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = fetchCap
	}

	query := "SELECT data FROM records WHERE collection = ?"
	args := []any{opts.Collection}
	if opts.PublishedOnly {
		query += " AND published = 1"
	}
	if opts.OrderByRecent {
		query += " ORDER BY updated_at DESC, id"
	} else {
		query += " ORDER BY id"
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", opts.Collection, err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec, err := domain.DecodeRecord([]byte(data))
		if err != nil {
			// A malformed row degrades to a missing record rather
			// than failing the whole slice.
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", opts.Collection, err)
	}
	return records, nil
}

// PutRecord stores a record, replacing any existing record with the
// same id. The published flag and update timestamp are denormalized
// from the record body.
func (s *Store) PutRecord(ctx context.Context, collection, id string, record domain.Record) error {
	if collection == "" || id == "" {
		return domain.ErrInvalidInput
	}

	data, err := domain.EncodeRecord(record)
	if err != nil {
		return fmt.Errorf("encoding record %s/%s: %w", collection, id, err)
	}

	published := 1
	if v := record.Get("published"); v.Kind() == domain.KindBool && !v.AsBool() {
		published = 0
	}
	updatedAt := record.GetString("updated_at")
	if updatedAt == "" {
		updatedAt = record.GetString("created_at")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (collection, id, data, published, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			data = excluded.data,
			published = excluded.published,
			updated_at = excluded.updated_at
	`, collection, id, string(data), published, updatedAt)
	if err != nil {
		return fmt.Errorf("storing record %s/%s: %w", collection, id, err)
	}
	return nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
