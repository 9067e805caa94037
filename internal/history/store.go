package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added idx_translations_error_kind
const currentSchemaVersion = 1

// NoPosition is stored in ErrorPos when the entry has no source position.
const NoPosition = -1

// ErrNotFound is returned by Get when no entry has the requested ID.
var ErrNotFound = errors.New("history entry not found")

// Entry is one recorded translation.
type Entry struct {
	ID           string `json:"id"`
	Seq          int64  `json:"seq"`
	Query        string `json:"query"`
	Command      string `json:"command,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ErrorPos     int    `json:"error_pos"`
}

// Failed reports whether the translation ended in an error.
func (e Entry) Failed() bool {
	return e.ErrorKind != "" || e.ErrorMessage != ""
}

// Store is a SQLite-backed translation history.
type Store struct {
	db    *sql.DB
	clock *Clock
}

// Open creates or opens the history database at path and applies pragmas
// and migrations. The clock resumes after the highest stored seq.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	var maxSeq sql.NullInt64
	if err := db.QueryRow("SELECT MAX(seq) FROM translations").Scan(&maxSeq); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read clock position: %w", err)
	}

	return &Store{db: db, clock: NewClockAt(maxSeq.Int64)}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores e. An empty ID is replaced with a new UUIDv7 and a zero Seq
// with the next clock value. Recording an ID twice keeps the first row.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("record: generate id: %w", err)
		}
		e.ID = id.String()
	}
	if e.Seq == 0 {
		e.Seq = s.clock.Next()
	}
	if !e.Failed() {
		e.ErrorPos = NoPosition
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO translations
		(id, seq, query, command, error_kind, error_message, error_pos)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.Seq,
		e.Query,
		e.Command,
		e.ErrorKind,
		e.ErrorMessage,
		e.ErrorPos,
	)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}

	return nil
}

// List returns up to limit entries in recording order. A limit <= 0 returns
// every entry. The result is never nil.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, seq, query, command, error_kind, error_message, error_pos
		FROM translations
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`
	args := []any{}
	if limit > 0 {
		// The most recent entries, still in ascending order.
		query = `
			SELECT id, seq, query, command, error_kind, error_message, error_pos
			FROM (
				SELECT * FROM translations
				ORDER BY seq DESC, id COLLATE BINARY DESC
				LIMIT ?
			)
			ORDER BY seq ASC, id COLLATE BINARY ASC
		`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: iterate: %w", err)
	}

	return entries, nil
}

// Get returns the entry with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, query, command, error_kind, error_message, error_pos
		FROM translations
		WHERE id = ?
	`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get %s: %w", id, err)
	}
	return e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	err := row.Scan(
		&e.ID,
		&e.Seq,
		&e.Query,
		&e.Command,
		&e.ErrorKind,
		&e.ErrorMessage,
		&e.ErrorPos,
	)
	return e, err
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 indexes error_kind for "failed runs only" listings.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_translations_error_kind
		ON translations(error_kind)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
