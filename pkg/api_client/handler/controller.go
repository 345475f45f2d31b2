package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/biotools-linter/linter-api/pkg/api_client/catalog"
	"github.com/biotools-linter/linter-api/pkg/api_client/helper/problem"
	"github.com/biotools-linter/linter-api/pkg/api_client/services"
	"github.com/biotools-linter/linter-api/pkg/api_client/store"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LinterController serves the lint results API.
type LinterController struct {
	Search     *services.SearchService
	Summary    *services.SummaryService
	Statistics *services.StatisticsService
	Relint     *services.RelintService
	Catalog    *catalog.Catalog
	Store      store.MessageStore
	// Cache is the optional summary cache; nil when none is configured.
	Cache Pinger

	// ValidationStatus is returned for rejected tool identifiers (400 or 500).
	ValidationStatus int
	Logger           zerolog.Logger
}

// toProblem maps service errors onto problem details. Analyzer output never
// reaches the client.
func (lc *LinterController) toProblem(err error) error {
	var apiErr problem.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return problem.New(http.StatusRequestEntityTooLarge, "Request Entity Too Large",
			fmt.Sprintf("The tool document exceeds %d bytes", tooLarge.Limit))
	case errors.Is(err, services.ErrInputUnreadable):
		return problem.NewBadRequest("", "The tool document could not be read")
	case errors.Is(err, services.ErrValidation):
		status := lc.ValidationStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return problem.New(status, http.StatusText(status), "Tool identifier may only contain letters, digits, '_', '-' and '.'")
	case errors.Is(err, services.ErrDuplicateInFlight):
		return problem.NewTooManyRequests("A relint from this address or for this tool is already running")
	case errors.Is(err, services.ErrAnalyzerMalformedInput):
		return problem.NewBadRequest("", "The analyzer could not parse the input")
	case errors.Is(err, services.ErrAnalyzerNoData):
		return problem.NewInternalServerError("Could not retrieve the tool from bio.tools")
	case errors.Is(err, services.ErrAnalyzerTimeout),
		errors.Is(err, services.ErrAnalyzerFailed),
		errors.Is(err, services.ErrSpawnFailure):
		return problem.NewInternalServerError("Linting failed")
	case errors.Is(err, services.ErrInvalidFilter):
		return problem.NewBadRequest("", err.Error())
	case errors.Is(err, services.ErrStatisticsUnavailable):
		return problem.NewServiceUnavailable("Statistics are not available")
	default:
		lc.Logger.Error().Err(err).Msg("unhandled error")
		return problem.NewInternalServerError("Internal server error")
	}
}
