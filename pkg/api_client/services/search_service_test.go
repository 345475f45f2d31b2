package services

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biotools-linter/linter-api/pkg/api_client/models"
	"github.com/biotools-linter/linter-api/pkg/api_client/store"
)

func TestSearchPagination(t *testing.T) {
	ms := &memoryStore{rows: rows(150, "samtools", "URL_NO_SSL", models.SeverityReportMedium)}
	svc := NewSearchService(ms, zerolog.Nop())

	first, err := svc.Search(context.Background(), models.SearchParams{Page: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(150), first.Count)
	assert.Len(t, first.Results, 100)
	require.NotNil(t, first.Next)
	assert.Equal(t, "?page=1", *first.Next)
	assert.Nil(t, first.Previous)

	second, err := svc.Search(context.Background(), models.SearchParams{Page: 1})
	require.NoError(t, err)
	assert.Len(t, second.Results, 50)
	assert.Nil(t, second.Next)
	require.NotNil(t, second.Previous)
	assert.Equal(t, "?page=0", *second.Previous)

	beyond, err := svc.Search(context.Background(), models.SearchParams{Page: 5})
	require.NoError(t, err)
	assert.NotNil(t, beyond.Results)
	assert.Empty(t, beyond.Results)
	assert.Nil(t, beyond.Next)
	require.NotNil(t, beyond.Previous)
	assert.Equal(t, "?page=4", *beyond.Previous)
}

func TestSearchExactPageBoundary(t *testing.T) {
	ms := &memoryStore{rows: rows(100, "samtools", "URL_NO_SSL", models.SeverityReportMedium)}
	res, err := NewSearchService(ms, zerolog.Nop()).Search(context.Background(), models.SearchParams{})
	require.NoError(t, err)
	assert.Len(t, res.Results, 100)
	assert.Nil(t, res.Next)
}

func TestSearchSeverityFilter(t *testing.T) {
	all := append(rows(30, "samtools", "URL_SSL_ERROR", models.SeverityReportCritical),
		rows(70, "bwa", "URL_NO_SSL", models.SeverityReportMedium)...)
	ms := &memoryStore{rows: all}
	svc := NewSearchService(ms, zerolog.Nop())

	res, err := svc.Search(context.Background(), models.SearchParams{Severity: "ReportCritical"})
	require.NoError(t, err)
	assert.Equal(t, int64(30), res.Count)
	for _, m := range res.Results {
		assert.Equal(t, models.SeverityReportCritical, m.Severity)
	}

	res, err = svc.Search(context.Background(), models.SearchParams{Severity: "8"})
	require.NoError(t, err)
	assert.Equal(t, int64(30), res.Count)

	_, err = svc.Search(context.Background(), models.SearchParams{Severity: "Catastrophic"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestSearchCountAndPageShareFilter(t *testing.T) {
	ms := &memoryStore{rows: rows(10, "samtools", "URL_NO_SSL", models.SeverityReportLow)}
	_, err := NewSearchService(ms, zerolog.Nop()).Search(context.Background(), models.SearchParams{
		Query: "sam", Severity: "ReportLow", Code: "URL_NO_SSL",
	})
	require.NoError(t, err)
	require.Len(t, ms.filters, 2)
	assert.Equal(t, ms.filters[0], ms.filters[1])
	assert.Equal(t, store.Filter{
		Query:    "sam",
		Code:     "URL_NO_SSL",
		Severity: store.ExactSeverity(models.SeverityReportLow),
	}, ms.filters[0])
}

func TestSearchRendersResults(t *testing.T) {
	ms := &memoryStore{rows: rows(1, "<tool>", "URL_NO_SSL", models.SeverityReportLow)}
	res, err := NewSearchService(ms, zerolog.Nop()).Search(context.Background(), models.SearchParams{})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "&lt;tool&gt;", res.Results[0].Tool)
	assert.Contains(t, res.Results[0].Text, `<a href="http://example.com/x" rel="nofollow">http://example.com/x</a>`)
}

func TestSearchPageOutOfRange(t *testing.T) {
	svc := NewSearchService(&memoryStore{}, zerolog.Nop())
	for _, page := range []int{-1, store.MaxPage + 1, math.MaxInt} {
		_, err := svc.Search(context.Background(), models.SearchParams{Page: page})
		assert.ErrorIs(t, err, ErrInvalidFilter, page)
	}

	_, err := svc.Search(context.Background(), models.SearchParams{Page: store.MaxPage})
	assert.NoError(t, err)
}

func TestSearchStoreError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewSearchService(&memoryStore{err: boom}, zerolog.Nop()).Search(context.Background(), models.SearchParams{})
	assert.ErrorIs(t, err, boom)
}

func TestPageCursorsCarryFilters(t *testing.T) {
	p := models.SearchParams{Page: 1, Query: "sam tools", Severity: "ReportHigh", Code: "URL_%"}
	next, prev := PageCursors(p, 1000)
	require.NotNil(t, next)
	require.NotNil(t, prev)
	assert.Equal(t, "?page=2&query=sam+tools&severity=ReportHigh&code=URL_%25", *next)
	assert.Equal(t, "?page=0&query=sam+tools&severity=ReportHigh&code=URL_%25", *prev)
}

func TestPageCursorsInvariant(t *testing.T) {
	for _, count := range []int64{0, 1, 99, 100, 101, 250} {
		for page := 0; page < 4; page++ {
			next, prev := PageCursors(models.SearchParams{Page: page}, count)
			assert.Equal(t, int64(page+1)*store.PageSize < count, next != nil, "count=%d page=%d", count, page)
			assert.Equal(t, page > 0, prev != nil, "count=%d page=%d", count, page)
		}
	}
}

func TestDownload(t *testing.T) {
	all := append(rows(2, "samtools", "URL_NO_SSL", models.SeverityReportLow),
		rows(3, "bwa", "EDAM_OBSOLETE", models.SeverityReportMedium)...)
	all[0].Text = "line one\nline \"two\""
	ms := &memoryStore{rows: all}

	var buf bytes.Buffer
	err := NewSearchService(ms, zerolog.Nop()).Download(context.Background(), models.SearchParams{Query: "sam"}, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "time,timestamp,tool,code,severity,text", lines[0])
	assert.Equal(t, `1700000000,2023-11-14 22:13,samtools,URL_NO_SSL,7,"line one line ""two"""`, lines[1])
}
