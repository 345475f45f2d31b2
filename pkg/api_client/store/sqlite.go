package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/biotools-linter/linter-api/pkg/api_client/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	time INTEGER NOT NULL,
	tool TEXT NOT NULL,
	code TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	text TEXT NOT NULL DEFAULT '',
	level INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_time_id ON messages (time DESC, id DESC);
`

// SQLiteStore handles SQLite database operations.
type SQLiteStore struct {
	db *sql.DB
	d  dialect
}

// NewSQLiteStore opens (and creates) the database file at dbPath.
func NewSQLiteStore(ctx context.Context, dbPath string, maxConns int) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/messages.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, d: sqliteDialect}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the messages table and its index when missing.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListMessages(ctx context.Context, f Filter, page int) ([]models.StoredMessage, error) {
	q, args := s.d.pageQuery(f, page)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.StoredMessage, 0, PageSize)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CountMessages(ctx context.Context, f Filter) (int64, error) {
	q, args := s.d.countQuery(f)
	var n int64
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

func (s *SQLiteStore) StreamMessages(ctx context.Context, f Filter, fn func(models.StoredMessage) error) error {
	q, args := s.d.streamQuery(f)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, countAllQuery).Scan(&n)
	return n, err
}

func (s *SQLiteStore) CountTools(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, countToolsQuery).Scan(&n)
	return n, err
}

func (s *SQLiteStore) OldestTime(ctx context.Context) (int64, error) {
	var t int64
	err := s.db.QueryRowContext(ctx, oldestTimeQuery).Scan(&t)
	return t, err
}

func (s *SQLiteStore) CountByCode(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, countByCodeQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var code string
		var n int64
		if err := rows.Scan(&code, &n); err != nil {
			return nil, err
		}
		out[code] = n
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CountBySeverity(ctx context.Context) (map[int]int64, error) {
	rows, err := s.db.QueryContext(ctx, countBySeverityQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]int64)
	for rows.Next() {
		var level int
		var n int64
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		out[level] = n
	}
	return out, rows.Err()
}
