package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/biotools-linter/linter-api/pkg/api_client/models"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		time BIGINT NOT NULL,
		tool TEXT NOT NULL,
		code TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		level INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_time_id ON messages (time DESC, id DESC)`,
}

// PostgresStore reads messages through a bounded pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	d    dialect
}

// NewPostgresStore creates a pool of at most maxConns connections.
func NewPostgresStore(ctx context.Context, databaseURL string, maxConns int) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = int32(maxConns)
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool, d: postgresDialect}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate creates the messages table and its index when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, f Filter, page int) ([]models.StoredMessage, error) {
	q, args := s.d.pageQuery(f, page)
	rows, err := s.pool.Query(ctx, q, args...)
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

func (s *PostgresStore) CountMessages(ctx context.Context, f Filter) (int64, error) {
	q, args := s.d.countQuery(f)
	var n int64
	err := s.pool.QueryRow(ctx, q, args...).Scan(&n)
	return n, err
}

func (s *PostgresStore) StreamMessages(ctx context.Context, f Filter, fn func(models.StoredMessage) error) error {
	q, args := s.d.streamQuery(f)
	rows, err := s.pool.Query(ctx, q, args...)
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

func (s *PostgresStore) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, countAllQuery).Scan(&n)
	return n, err
}

func (s *PostgresStore) CountTools(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, countToolsQuery).Scan(&n)
	return n, err
}

func (s *PostgresStore) OldestTime(ctx context.Context) (int64, error) {
	var t int64
	err := s.pool.QueryRow(ctx, oldestTimeQuery).Scan(&t)
	return t, err
}

func (s *PostgresStore) CountByCode(ctx context.Context) (map[string]int64, error) {
	rows, err := s.pool.Query(ctx, countByCodeQuery)
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

func (s *PostgresStore) CountBySeverity(ctx context.Context) (map[int]int64, error) {
	rows, err := s.pool.Query(ctx, countBySeverityQuery)
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
