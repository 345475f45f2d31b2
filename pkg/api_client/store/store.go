package store

import (
	"context"

	"github.com/biotools-linter/linter-api/pkg/api_client/models"
)

// MessageStore is the read side of the messages table.
// Both PostgresStore and SQLiteStore implement this interface.
type MessageStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error

	// Filtered access. List and Count share one predicate.
	ListMessages(ctx context.Context, f Filter, page int) ([]models.StoredMessage, error)
	CountMessages(ctx context.Context, f Filter) (int64, error)
	StreamMessages(ctx context.Context, f Filter, fn func(models.StoredMessage) error) error

	// Aggregates over every row, whatever its level
	CountAll(ctx context.Context) (int64, error)
	CountTools(ctx context.Context) (int64, error)
	OldestTime(ctx context.Context) (int64, error)
	CountByCode(ctx context.Context) (map[string]int64, error)
	CountBySeverity(ctx context.Context) (map[int]int64, error)
}

// rowScanner is satisfied by pgx.Rows, pgx.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(r rowScanner) (models.StoredMessage, error) {
	var m models.StoredMessage
	err := r.Scan(&m.ID, &m.Time, &m.Tool, &m.Code, &m.Location, &m.Text, &m.Level)
	return m, err
}

const messageColumns = "id, time, tool, code, location, text, level"
