package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity is the level of a lint message. The integer values are persisted
// in the messages table and must never change.
type Severity int

const (
	// SeverityError is obsolete for findings and now used as the fallback.
	SeverityError Severity = 1
	// SeverityLinterError marks an uncaught analyzer error.
	SeverityLinterError Severity = 2
	// SeverityReportHigh is a high-severity finding.
	SeverityReportHigh Severity = 5
	// SeverityReportMedium is a medium-severity finding.
	SeverityReportMedium Severity = 6
	// SeverityReportLow is a low-severity finding.
	SeverityReportLow Severity = 7
	// SeverityReportCritical is reserved for security issues.
	SeverityReportCritical Severity = 8
)

// MinSeverity and MaxSeverity bound every defined wire value.
const (
	MinSeverity = SeverityError
	MaxSeverity = SeverityReportCritical
)

var severityNames = map[Severity]string{
	SeverityError:          "Error",
	SeverityLinterError:    "LinterError",
	SeverityReportCritical: "ReportCritical",
	SeverityReportHigh:     "ReportHigh",
	SeverityReportMedium:   "ReportMedium",
	SeverityReportLow:      "ReportLow",
}

// Severities lists every defined severity in display order.
func Severities() []Severity {
	return []Severity{
		SeverityError,
		SeverityLinterError,
		SeverityReportCritical,
		SeverityReportHigh,
		SeverityReportMedium,
		SeverityReportLow,
	}
}

// SeverityFromInt converts a stored level. Unknown values map to SeverityError.
func SeverityFromInt(v int) Severity {
	s := Severity(v)
	if _, ok := severityNames[s]; ok {
		return s
	}
	return SeverityError
}

// Int returns the wire value.
func (s Severity) Int() int { return int(s) }

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return severityNames[SeverityError]
}

// ParseSeverity accepts a symbolic name (case-insensitive) or a wire integer.
// Integers always succeed through SeverityFromInt; unknown names are an error.
func ParseSeverity(raw string) (Severity, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return SeverityFromInt(n), nil
	}
	for s, name := range severityNames {
		if strings.EqualFold(name, raw) {
			return s, nil
		}
	}
	return SeverityError, fmt.Errorf("unknown severity %q", raw)
}
