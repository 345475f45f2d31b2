package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/biotools-linter/linter-api/pkg/api_client/catalog"
	"github.com/biotools-linter/linter-api/pkg/api_client/models"
	"github.com/biotools-linter/linter-api/pkg/api_client/store"
)

var jsonNull = json.RawMessage("null")

// ToolCounter reports how many tools the registry holds.
type ToolCounter interface {
	ToolCount(ctx context.Context) (int64, error)
}

// StatisticsService serves and extends the precomputed statistics file.
type StatisticsService struct {
	path     string
	catalog  *catalog.Catalog
	store    store.MessageStore
	registry ToolCounter
	logger   zerolog.Logger
	now      func() time.Time

	// mu serialises snapshot writers within this process.
	mu sync.Mutex
}

func NewStatisticsService(path string, cat *catalog.Catalog, s store.MessageStore, registry ToolCounter, logger zerolog.Logger) *StatisticsService {
	return &StatisticsService{
		path:     path,
		catalog:  cat,
		store:    s,
		registry: registry,
		logger:   logger.With().Str("component", "statistics").Logger(),
		now:      time.Now,
	}
}

// Statistics reads the statistics file and gives every bucket the full set
// of error-code keys, null where a code has no value.
func (s *StatisticsService) Statistics(ctx context.Context) (*models.Statistics, error) {
	stats, err := s.read()
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("reading statistics failed")
		return nil, fmt.Errorf("%w: %v", ErrStatisticsUnavailable, err)
	}
	names := s.catalog.Names()
	for i := range stats.Data {
		entry := &stats.Data[i]
		if entry.ErrorTypes == nil {
			entry.ErrorTypes = make(map[string]json.RawMessage, len(names))
		}
		for _, code := range names {
			if _, ok := entry.ErrorTypes[code]; !ok {
				entry.ErrorTypes[code] = jsonNull
			}
		}
	}
	return stats, nil
}

func (s *StatisticsService) read() (*models.Statistics, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var stats models.Statistics
	if err := json.Unmarshal(b, &stats); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if stats.Data == nil {
		stats.Data = []models.StatisticsEntry{}
	}
	return &stats, nil
}

// Snapshot counts the current messages and appends one bucket to the
// statistics file. The file is created when missing and replaced atomically.
func (s *StatisticsService) Snapshot(ctx context.Context) (*models.StatisticsEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.read()
	switch {
	case errors.Is(err, os.ErrNotExist):
		stats = &models.Statistics{Data: []models.StatisticsEntry{}}
	case err != nil:
		return nil, err
	}
	stats.Data = append(stats.Data, *entry)

	if err := writeFileAtomic(s.path, stats); err != nil {
		return nil, err
	}
	s.logger.Info().
		Int64("total_errors", entry.TotalErrors).
		Int64("unique_tools", entry.UniqueTools).
		Int64("total_count_on_biotools", entry.TotalCountOnBiotools).
		Msg("appended statistics entry")
	return entry, nil
}

func (s *StatisticsService) collect(ctx context.Context) (*models.StatisticsEntry, error) {
	entry := &models.StatisticsEntry{Time: s.now().UTC().Unix()}

	var (
		byCode     map[string]int64
		bySeverity map[int]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entry.TotalErrors, err = s.store.CountAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		entry.UniqueTools, err = s.store.CountTools(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byCode, err = s.store.CountByCode(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bySeverity, err = s.store.CountBySeverity(gctx)
		return err
	})
	g.Go(func() error {
		n, err := s.registry.ToolCount(gctx)
		if err != nil {
			// The registry being down must not lose a snapshot.
			s.logger.Warn().Err(err).Msg("could not read bio.tools tool count")
			return nil
		}
		entry.TotalCountOnBiotools = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect statistics: %w", err)
	}

	entry.ErrorTypes = make(map[string]json.RawMessage, len(byCode))
	for _, code := range s.catalog.Names() {
		entry.ErrorTypes[code] = countJSON(byCode[code])
	}
	entry.Severity = make(map[string]json.RawMessage)
	for _, sev := range models.Severities() {
		entry.Severity[sev.String()] = countJSON(bySeverity[sev.Int()])
	}
	return entry, nil
}

func countJSON(n int64) json.RawMessage {
	return json.RawMessage(strconv.FormatInt(n, 10))
}

func writeFileAtomic(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".statistics-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
