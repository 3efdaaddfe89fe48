package genre

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLiteStore persists the genre cache in a sqlite database so it survives
// restarts
type SQLiteStore struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// OpenSQLiteStore opens (creating if needed) the database at path and runs
// migrations
func OpenSQLiteStore(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("genre cache path is required")
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps reads and the replace transaction ordered.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{
		conn:   conn,
		logger: logger.With().Str("component", "genre_store").Logger(),
	}

	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{s.logger})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(s.conn, "migrations"); err != nil {
		return err
	}

	version, err := goose.GetDBVersion(s.conn)
	if err != nil {
		return fmt.Errorf("failed to verify migration version: %w", err)
	}
	s.logger.Debug().Int64("version", version).Msg("Genre store migrated")
	return nil
}

// Load returns the stored entries in catalog order
func (s *SQLiteStore) Load(ctx context.Context) ([]Entry, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, last_updated FROM genres ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			updated int64
		)
		if err := rows.Scan(&e.ID, &e.Name, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		e.LastUpdated = time.Unix(0, updated)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Replace deletes every row and inserts entries in a single transaction
func (s *SQLiteStore) Replace(ctx context.Context, entries []Entry) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM genres`); err != nil {
		return fmt.Errorf("failed to clear genres: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO genres (id, name, position, last_updated) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.ID, e.Name, i, e.LastUpdated.UnixNano()); err != nil {
			return fmt.Errorf("failed to insert genre %d: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// Clear removes every entry
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM genres`); err != nil {
		return fmt.Errorf("failed to clear genres: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// gooseLogger routes migration output through zerolog
type gooseLogger struct {
	logger zerolog.Logger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatal().Msgf(format, v...)
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}
