package models

// StoredMessage is a row of the messages table as written by the analyzer.
type StoredMessage struct {
	ID       int64
	Time     int64
	Tool     string
	Code     string
	Location string
	Text     string
	Level    int
}

// Message is the display-safe form of a StoredMessage returned by the API.
// It is rebuilt for every request and never persisted.
type Message struct {
	// Unix timestamp when the error was found
	Time int64 `json:"time"`
	// UTC timestamp formatted as YYYY-MM-DD HH:MM
	Timestamp string `json:"timestamp"`
	// bio.tools ID of the tool the message belongs to
	Tool string `json:"tool"`
	// Error code from the catalogue
	Code     string `json:"code"`
	Location string `json:"location"`
	// Human readable error with links rendered as anchors
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// SearchResponse is a single page of messages.
type SearchResponse struct {
	// Number of messages matching the filters, across all pages
	Count int64 `json:"count"`
	// Relative query string of the next page, null on the last page
	Next *string `json:"next"`
	// Relative query string of the previous page, null on the first page
	Previous *string   `json:"previous"`
	Results  []Message `json:"results"`
}

// Summary holds the headline counters of the message table.
type Summary struct {
	ErrorCount      int64  `json:"error_count"`
	ToolCount       int64  `json:"tool_count"`
	CriticalCount   int64  `json:"critical_count"`
	OldestEntry     int64  `json:"oldest_entry"`
	OldestTimestamp string `json:"oldest_timestamp"`
}
