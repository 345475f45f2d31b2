package models

// SearchParams are the query parameters of the search and download endpoints.
// Empty strings mean the filter is not set.
type SearchParams struct {
	Query    string `query:"query" description:"Case-insensitive substring of the tool ID or error code"`
	Page     int    `query:"page" default:"0" validate:"gte=0,lte=10000000" description:"Zero-based page, 100 messages per page"`
	Severity string `query:"severity" description:"Severity name or wire integer"`
	Code     string `query:"code" description:"Error code, SQL LIKE wildcards allowed"`
}

// RelintParams selects the tool to relint.
type RelintParams struct {
	Tool string `query:"tool" description:"bio.tools ID of the tool"`
}

// JSONLintParams configures a lint of a posted tool document. It is bound by
// gin directly since the body must stay unread.
type JSONLintParams struct {
	BiotoolsFormat bool `form:"biotools_format"`
}

// CodeParams selects one entry of the error-code catalogue.
type CodeParams struct {
	Code string `path:"code" validate:"required" description:"Error code, e.g. URL_INVALID"`
}
