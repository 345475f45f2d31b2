package models

import "encoding/json"

// Statistics is the document kept in the statistics file.
type Statistics struct {
	Data []StatisticsEntry `json:"data"`
}

// StatisticsEntry is one time bucket. ErrorTypes values are counts, or null
// for codes that did not exist when the bucket was recorded.
type StatisticsEntry struct {
	Time                 int64                      `json:"time"`
	TotalCountOnBiotools int64                      `json:"total_count_on_biotools"`
	TotalErrors          int64                      `json:"total_errors"`
	UniqueTools          int64                      `json:"unique_tools"`
	ErrorTypes           map[string]json.RawMessage `json:"error_types"`
	Severity             map[string]json.RawMessage `json:"severity"`
}

// ErrorCode describes one entry of the error-code catalogue.
type ErrorCode struct {
	Code        string `json:"code"`
	Category    string `json:"category"`
	Severity    string `json:"severity,omitempty"`
	Description string `json:"description"`
}

// CodeList is the error-code catalogue as served by the API.
type CodeList struct {
	Codes []ErrorCode `json:"codes"`
}

// Health reports whether the service can reach its store.
type Health struct {
	Status string `json:"status"`
}
