package store

import (
	"html"
	"strings"

	"github.com/biotools-linter/linter-api/pkg/api_client/models"
)

// PageSize is the fixed number of messages per page.
const PageSize = 100

// MaxPage is the highest page a search may ask for. It keeps the offset and
// the next-page cursor far from integer overflow.
const MaxPage = 10_000_000

// Offset returns the row offset of a zero-based page, clamped to
// [0, MaxPage].
func Offset(page int) int {
	page = max(0, min(page, MaxPage))
	return page * PageSize
}

// SeverityFilter is either any severity or exactly one.
type SeverityFilter struct {
	exact    bool
	severity models.Severity
}

// AnySeverity matches every level.
func AnySeverity() SeverityFilter { return SeverityFilter{} }

// ExactSeverity matches a single level.
func ExactSeverity(s models.Severity) SeverityFilter {
	return SeverityFilter{exact: true, severity: s}
}

// Severity reports the selected severity, if any.
func (f SeverityFilter) Severity() (models.Severity, bool) {
	return f.severity, f.exact
}

// Bounds returns the inclusive level range the filter admits.
func (f SeverityFilter) Bounds() (lo, hi int) {
	if f.exact {
		return f.severity.Int(), f.severity.Int()
	}
	return models.MinSeverity.Int(), models.MaxSeverity.Int()
}

// Filter is the set of optional search filters. Zero values are pass-through.
type Filter struct {
	Query    string
	Severity SeverityFilter
	Code     string
}

// textPattern turns free text into a substring LIKE pattern. The text is
// html-escaped the same way stored rows are rendered, and LIKE wildcards in
// it are escaped so they match literally.
func textPattern(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return "%"
	}
	return "%" + escapeLike(html.EscapeString(q)) + "%"
}

// codePattern keeps wildcards supplied by the caller. Backslashes match
// literally, so a pattern can never end in a dangling escape.
func codePattern(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return "%"
	}
	return strings.ReplaceAll(c, `\`, `\\`)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
