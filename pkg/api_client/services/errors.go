package services

import "errors"

// ErrValidation is returned for a tool identifier outside the allowed set.
var ErrValidation = errors.New("invalid tool identifier")

// ErrDuplicateInFlight is returned when the IP or the tool already has a running relint.
var ErrDuplicateInFlight = errors.New("relint already in progress")

// ErrAnalyzerMalformedInput maps the analyzer exit code for unparsable input.
var ErrAnalyzerMalformedInput = errors.New("analyzer rejected the input")

// ErrAnalyzerNoData maps the analyzer exit code for data it could not retrieve.
var ErrAnalyzerNoData = errors.New("analyzer could not retrieve the tool")

// ErrAnalyzerFailed covers every other non-zero exit.
var ErrAnalyzerFailed = errors.New("analyzer failed")

var ErrAnalyzerTimeout = errors.New("analyzer timed out")

// ErrSpawnFailure is returned when the analyzer process could not be started.
var ErrSpawnFailure = errors.New("analyzer could not be started")

// ErrInputUnreadable is returned when the document meant for the analyzer's
// stdin could not be read, for example because it exceeded the size limit.
var ErrInputUnreadable = errors.New("analyzer input could not be read")

var ErrInvalidFilter = errors.New("invalid filter")

// ErrStatisticsUnavailable is returned when the statistics file cannot be read.
var ErrStatisticsUnavailable = errors.New("statistics unavailable")
