package services

import (
	"context"
	"strings"
	"sync"

	"github.com/biotools-linter/linter-api/pkg/api_client/models"
	"github.com/biotools-linter/linter-api/pkg/api_client/store"
)

// memoryStore is an in-memory MessageStore. Rows are kept newest first and
// matched with plain substring rules.
type memoryStore struct {
	mu   sync.Mutex
	rows []models.StoredMessage
	err  error

	filters []store.Filter
}

func (m *memoryStore) match(f store.Filter) []models.StoredMessage {
	m.mu.Lock()
	m.filters = append(m.filters, f)
	m.mu.Unlock()

	lo, hi := f.Severity.Bounds()
	q := strings.ToLower(f.Query)
	var out []models.StoredMessage
	for _, r := range m.rows {
		if r.Level < lo || r.Level > hi {
			continue
		}
		if f.Code != "" && !strings.EqualFold(r.Code, f.Code) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Tool), q) && !strings.Contains(strings.ToLower(r.Code), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (m *memoryStore) Close()                            {}
func (m *memoryStore) Ping(ctx context.Context) error    { return m.err }
func (m *memoryStore) Migrate(ctx context.Context) error { return nil }

func (m *memoryStore) ListMessages(ctx context.Context, f store.Filter, page int) ([]models.StoredMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	all := m.match(f)
	start := store.Offset(page)
	if start >= len(all) {
		return []models.StoredMessage{}, nil
	}
	end := start + store.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (m *memoryStore) CountMessages(ctx context.Context, f store.Filter) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.match(f))), nil
}

func (m *memoryStore) StreamMessages(ctx context.Context, f store.Filter, fn func(models.StoredMessage) error) error {
	if m.err != nil {
		return m.err
	}
	for _, r := range m.match(f) {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryStore) CountAll(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.rows)), nil
}

func (m *memoryStore) CountTools(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	seen := map[string]bool{}
	for _, r := range m.rows {
		seen[r.Tool] = true
	}
	return int64(len(seen)), nil
}

func (m *memoryStore) OldestTime(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var oldest int64
	for _, r := range m.rows {
		if oldest == 0 || r.Time < oldest {
			oldest = r.Time
		}
	}
	return oldest, nil
}

func (m *memoryStore) CountByCode(ctx context.Context) (map[string]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]int64{}
	for _, r := range m.rows {
		out[r.Code]++
	}
	return out, nil
}

func (m *memoryStore) CountBySeverity(ctx context.Context) (map[int]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[int]int64{}
	for _, r := range m.rows {
		out[r.Level]++
	}
	return out, nil
}

// rows builds n messages with decreasing timestamps.
func rows(n int, tool, code string, sev models.Severity) []models.StoredMessage {
	out := make([]models.StoredMessage, n)
	for i := range out {
		out[i] = models.StoredMessage{
			ID:    int64(i + 1),
			Time:  int64(1_700_000_000 - i),
			Tool:  tool,
			Code:  code,
			Text:  "see http://example.com/x for details",
			Level: sev.Int(),
		}
	}
	return out
}
