// Package catalog maintains a sqlite index of emitted descriptors so
// downstream registry tools can query what was cataloged without
// globbing the output directory.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/datacat/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one recorded descriptor.
type Entry struct {
	ID             string
	Variant        models.SchemaVariant
	OutputPath     string
	RunID          string
	GenerationDate string
	WrittenAt      time.Time
}

// Store manages the catalog database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens (creating if necessary) the catalog database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}

	// busy_timeout first so the remaining pragmas wait on locks instead
	// of failing when another process touches the file.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record upserts one descriptor entry. Re-running the pipeline over
// unchanged inputs rewrites the same rows.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO descriptors (id, variant, output_path, run_id, generation_date, written_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			variant = excluded.variant,
			output_path = excluded.output_path,
			run_id = excluded.run_id,
			generation_date = excluded.generation_date,
			written_at = excluded.written_at`,
		e.ID, string(e.Variant), e.OutputPath, e.RunID, e.GenerationDate, e.WrittenAt)
	if err != nil {
		return fmt.Errorf("record descriptor %s: %w", e.ID, err)
	}
	return nil
}

// List returns all recorded descriptors, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, variant, output_path, run_id, generation_date, written_at
		FROM descriptors
		ORDER BY written_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list descriptors: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var variant string
		if err := rows.Scan(&e.ID, &variant, &e.OutputPath, &e.RunID, &e.GenerationDate, &e.WrittenAt); err != nil {
			return nil, fmt.Errorf("scan descriptor row: %w", err)
		}
		e.Variant = models.SchemaVariant(variant)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
