package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/biotools-linter/linter-api/pkg/api_client/helper/render"
	"github.com/biotools-linter/linter-api/pkg/api_client/metrics"
	"github.com/biotools-linter/linter-api/pkg/api_client/models"
	"github.com/biotools-linter/linter-api/pkg/api_client/store"
)

// SearchService answers paginated message searches and CSV exports.
type SearchService struct {
	store  store.MessageStore
	logger zerolog.Logger
}

func NewSearchService(s store.MessageStore, logger zerolog.Logger) *SearchService {
	return &SearchService{store: s, logger: logger.With().Str("component", "search").Logger()}
}

// ParseFilter turns raw query parameters into a store filter.
func ParseFilter(p models.SearchParams) (store.Filter, error) {
	f := store.Filter{
		Query:    strings.TrimSpace(p.Query),
		Code:     strings.TrimSpace(p.Code),
		Severity: store.AnySeverity(),
	}
	if raw := strings.TrimSpace(p.Severity); raw != "" {
		sev, err := models.ParseSeverity(raw)
		if err != nil {
			return store.Filter{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		f.Severity = store.ExactSeverity(sev)
	}
	return f, nil
}

// Search fetches one page and the total count of matching messages. Both
// queries run concurrently and are not cancelled when the caller leaves.
func (s *SearchService) Search(ctx context.Context, p models.SearchParams) (*models.SearchResponse, error) {
	if p.Page < 0 || p.Page > store.MaxPage {
		return nil, fmt.Errorf("%w: page must be between 0 and %d", ErrInvalidFilter, store.MaxPage)
	}
	f, err := ParseFilter(p)
	if err != nil {
		return nil, err
	}
	metrics.SearchQueries.Inc()
	ev := s.logger.Debug().
		Int("page", p.Page).
		Str("query", f.Query).
		Str("code", f.Code)
	if sev, ok := f.Severity.Severity(); ok {
		ev = ev.Stringer("severity", sev)
	}
	ev.Msg("listing messages")

	var (
		rows  []models.StoredMessage
		count int64
	)
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	g.Go(func() error {
		var err error
		rows, err = s.store.ListMessages(gctx, f, p.Page)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.store.CountMessages(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}

	next, previous := PageCursors(p, count)
	return &models.SearchResponse{
		Count:    count,
		Next:     next,
		Previous: previous,
		Results:  render.Messages(rows),
	}, nil
}

// PageCursors returns the relative links of the neighbouring pages. next is
// nil on the last page and previous is nil on the first.
func PageCursors(p models.SearchParams, count int64) (next, previous *string) {
	if int64(p.Page+1)*store.PageSize < count {
		link := pageLink(p.Page+1, p)
		next = &link
	}
	if p.Page > 0 {
		link := pageLink(p.Page-1, p)
		previous = &link
	}
	return next, previous
}

func pageLink(page int, p models.SearchParams) string {
	var b strings.Builder
	b.WriteString("?page=")
	b.WriteString(strconv.Itoa(page))
	for _, kv := range [][2]string{{"query", p.Query}, {"severity", p.Severity}, {"code", p.Code}} {
		if v := strings.TrimSpace(kv[1]); v != "" {
			b.WriteString("&" + kv[0] + "=" + url.QueryEscape(v))
		}
	}
	return b.String()
}

// Download writes every matching message to w as CSV, newest first.
func (s *SearchService) Download(ctx context.Context, p models.SearchParams, w io.Writer) error {
	f, err := ParseFilter(p)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, render.CSVHeader); err != nil {
		return err
	}
	var n int
	err = s.store.StreamMessages(context.WithoutCancel(ctx), f, func(m models.StoredMessage) error {
		n++
		_, err := io.WriteString(w, render.CSVRow(m))
		return err
	})
	metrics.DownloadRows.Add(float64(n))
	s.logger.Info().Int("rows", n).Str("query", f.Query).Msg("csv download")
	return err
}
