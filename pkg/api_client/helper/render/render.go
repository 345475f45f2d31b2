// Package render turns stored lint messages into display-safe records.
package render

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/biotools-linter/linter-api/pkg/api_client/models"
)

// TimestampLayout is the UTC display format of message times.
const TimestampLayout = "2006-01-02 15:04"

var linkRe = regexp.MustCompile(`(https?|ftp)://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+(?:#[^\s]*)?`)

// Timestamp formats unix seconds as YYYY-MM-DD HH:MM in UTC.
func Timestamp(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(TimestampLayout)
}

// Autolink escapes text and wraps every http(s)/ftp URL in a nofollow anchor.
func Autolink(text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range linkRe.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:loc[0]]))
		url := html.EscapeString(text[loc[0]:loc[1]])
		b.WriteString(`<a href="`)
		b.WriteString(url)
		b.WriteString(`" rel="nofollow">`)
		b.WriteString(url)
		b.WriteString(`</a>`)
		last = loc[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}

// Message converts a stored row into its display form.
func Message(m models.StoredMessage) models.Message {
	return models.Message{
		Time:      m.Time,
		Timestamp: Timestamp(m.Time),
		Tool:      html.EscapeString(m.Tool),
		Code:      html.EscapeString(m.Code),
		Location:  html.EscapeString(m.Location),
		Text:      Autolink(m.Text),
		Severity:  models.SeverityFromInt(m.Level),
	}
}

// Messages converts a page of rows. The result is never nil.
func Messages(rows []models.StoredMessage) []models.Message {
	out := make([]models.Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, Message(r))
	}
	return out
}

// CSVHeader is the first line of a download.
const CSVHeader = "time,timestamp,tool,code,severity,text\n"

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// CSVRow renders one download line. The text column is always quoted.
func CSVRow(m models.StoredMessage) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(m.Time, 10))
	b.WriteByte(',')
	b.WriteString(Timestamp(m.Time))
	b.WriteByte(',')
	b.WriteString(csvField(m.Tool))
	b.WriteByte(',')
	b.WriteString(csvField(m.Code))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(models.SeverityFromInt(m.Level).Int()))
	b.WriteByte(',')
	b.WriteString(quote(newlines.Replace(m.Text)))
	b.WriteByte('\n')
	return b.String()
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(newlines.Replace(s))
	}
	return s
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
