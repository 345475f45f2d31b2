package store

import (
	"strconv"
	"strings"
)

// dialect renders the message queries for one SQL engine.
type dialect struct {
	// placeholder renders the n-th (1-based) bind parameter.
	placeholder func(n int) string
	// like is the case-insensitive pattern operator.
	like string
}

var (
	postgresDialect = dialect{
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		like:        "ILIKE",
	}
	// SQLite LIKE is case-insensitive for ASCII. ?NNN binds by number so a
	// parameter can be referenced twice.
	sqliteDialect = dialect{
		placeholder: func(n int) string { return "?" + strconv.Itoa(n) },
		like:        "LIKE",
	}
)

// where builds the predicate shared by every filtered query. Its shape does
// not depend on which filters are set.
func (d dialect) where(f Filter) (string, []any) {
	lo, hi := f.Severity.Bounds()
	args := []any{textPattern(f.Query), lo, hi, codePattern(f.Code)}

	var b strings.Builder
	b.WriteString("(tool ")
	b.WriteString(d.like)
	b.WriteString(" " + d.placeholder(1) + ` ESCAPE '\' OR code `)
	b.WriteString(d.like)
	b.WriteString(" " + d.placeholder(1) + ` ESCAPE '\')`)
	b.WriteString(" AND level BETWEEN " + d.placeholder(2) + " AND " + d.placeholder(3))
	b.WriteString(" AND code " + d.like + " " + d.placeholder(4) + ` ESCAPE '\'`)
	return b.String(), args
}

const order = " ORDER BY time DESC, id DESC"

func (d dialect) pageQuery(f Filter, page int) (string, []any) {
	where, args := d.where(f)
	n := len(args)
	args = append(args, PageSize, Offset(page))
	q := "SELECT " + messageColumns + " FROM messages WHERE " + where + order +
		" LIMIT " + d.placeholder(n+1) + " OFFSET " + d.placeholder(n+2)
	return q, args
}

func (d dialect) countQuery(f Filter) (string, []any) {
	where, args := d.where(f)
	return "SELECT COUNT(*) FROM messages WHERE " + where, args
}

func (d dialect) streamQuery(f Filter) (string, []any) {
	where, args := d.where(f)
	return "SELECT " + messageColumns + " FROM messages WHERE " + where + order, args
}

const (
	countAllQuery        = "SELECT COUNT(*) FROM messages"
	countToolsQuery      = "SELECT COUNT(DISTINCT tool) FROM messages"
	oldestTimeQuery      = "SELECT COALESCE(MIN(time), 0) FROM messages"
	countByCodeQuery     = "SELECT code, COUNT(*) FROM messages GROUP BY code"
	countBySeverityQuery = "SELECT level, COUNT(*) FROM messages GROUP BY level"
)
