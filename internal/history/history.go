// Package history keeps a local ledger of confirmed uploads in an
// embedded SQLite database: what was uploaded, when, and the quickkey
// the server assigned. It exists so `put` results survive the process —
// quickkeys are otherwise easy to lose and annoying to search for.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver, registers as "sqlite".
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Entry is one confirmed upload.
type Entry struct {
	ID         string
	QuickKey   string
	Filename   string
	Size       int64
	Hash       string
	UploadedAt time.Time
}

// Store is the upload ledger. Use ":memory:" as the path in tests.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens the ledger database, applying any pending schema
// migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening %s: %w", path, err)
	}

	if err := runMigrations(context.Background(), db, logger); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

// runMigrations applies pending schema migrations using the goose v3
// Provider API (no global state, context-aware).
func runMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	// Strip the "migrations/" prefix so goose sees files at the FS root.
	subFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("history: creating migration sub-filesystem: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, subFS)
	if err != nil {
		return fmt.Errorf("history: creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("history: running migrations: %w", err)
	}

	for _, r := range results {
		logger.Info("applied history migration",
			slog.String("source", r.Source.Path),
			slog.Int64("duration_ms", r.Duration.Milliseconds()),
		)
	}

	return nil
}

// Record inserts a confirmed upload. The entry ID is generated here.
func (s *Store) Record(ctx context.Context, quickKey, filename string, size int64, hash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (id, quickkey, filename, size, hash, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), quickKey, filename, size, hash, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("history: recording upload: %w", err)
	}

	s.logger.Debug("recorded upload",
		slog.String("quickkey", quickKey),
		slog.String("filename", filename),
	)

	return nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, quickkey, filename, size, hash, uploaded_at
		 FROM uploads ORDER BY uploaded_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: querying uploads: %w", err)
	}
	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		var (
			e  Entry
			ts string
		)
		if err := rows.Scan(&e.ID, &e.QuickKey, &e.Filename, &e.Size, &e.Hash, &ts); err != nil {
			return nil, fmt.Errorf("history: scanning upload row: %w", err)
		}

		t, parseErr := time.Parse(time.RFC3339, ts)
		if parseErr != nil {
			s.logger.Warn("unparsable timestamp in history row",
				slog.String("id", e.ID),
				slog.String("raw", ts),
			)
		}

		e.UploadedAt = t
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterating upload rows: %w", err)
	}

	return entries, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
