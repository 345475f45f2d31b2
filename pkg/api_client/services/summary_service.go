package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/biotools-linter/linter-api/pkg/api_client/helper/render"
	"github.com/biotools-linter/linter-api/pkg/api_client/metrics"
	"github.com/biotools-linter/linter-api/pkg/api_client/models"
	"github.com/biotools-linter/linter-api/pkg/api_client/store"
	"github.com/biotools-linter/linter-api/pkg/cache"
)

const summaryCacheKey = "linter-api:summary"

// SummaryCache is the subset of cache.Cache used for the summary counters.
type SummaryCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
}

// SummaryService computes the headline counters of the message table.
type SummaryService struct {
	store  store.MessageStore
	cache  SummaryCache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewSummaryService returns a service; c may be nil to disable caching.
func NewSummaryService(s store.MessageStore, c SummaryCache, ttl time.Duration, logger zerolog.Logger) *SummaryService {
	return &SummaryService{
		store:  s,
		cache:  c,
		ttl:    ttl,
		logger: logger.With().Str("component", "summary").Logger(),
	}
}

func (s *SummaryService) Summary(ctx context.Context) (*models.Summary, error) {
	if cached, ok := s.cached(ctx); ok {
		return cached, nil
	}

	var sum models.Summary
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	g.Go(func() error {
		var err error
		sum.ErrorCount, err = s.store.CountAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sum.CriticalCount, err = s.store.CountMessages(gctx, store.Filter{Severity: store.ExactSeverity(models.SeverityReportCritical)})
		return err
	})
	g.Go(func() error {
		var err error
		sum.ToolCount, err = s.store.CountTools(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sum.OldestEntry, err = s.store.OldestTime(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	sum.OldestTimestamp = render.Timestamp(sum.OldestEntry)

	s.remember(ctx, &sum)
	return &sum, nil
}

func (s *SummaryService) cached(ctx context.Context) (*models.Summary, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, err := s.cache.Get(ctx, summaryCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn().Err(err).Msg("summary cache read failed")
		}
		metrics.SummaryCacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	var sum models.Summary
	if err := json.Unmarshal(b, &sum); err != nil {
		s.logger.Warn().Err(err).Msg("summary cache entry unreadable")
		metrics.SummaryCacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.SummaryCacheHits.WithLabelValues("hit").Inc()
	return &sum, true
}

func (s *SummaryService) remember(ctx context.Context, sum *models.Summary) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	b, err := json.Marshal(sum)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, summaryCacheKey, b, s.ttl); err != nil {
		s.logger.Warn().Err(err).Msg("summary cache write failed")
	}
}
