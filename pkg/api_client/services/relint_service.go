package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/biotools-linter/linter-api/pkg/api_client/metrics"
	"github.com/biotools-linter/linter-api/pkg/api_client/models"
)

// jsonKeyPrefix marks registry entries of document lints, which have no tool.
const jsonKeyPrefix = "json:"

// RelintService admits relint requests and hands them to the job runner.
type RelintService struct {
	registry *InFlightRegistry
	runner   *JobRunner
	logger   zerolog.Logger
}

func NewRelintService(registry *InFlightRegistry, runner *JobRunner, logger zerolog.Logger) *RelintService {
	return &RelintService{
		registry: registry,
		runner:   runner,
		logger:   logger.With().Str("component", "relint").Logger(),
	}
}

// Relint validates rawTool, reserves the (ip, tool) slot and runs the analyzer.
// The slot is released when the analyzer finishes, whatever the outcome.
func (s *RelintService) Relint(ctx context.Context, ip, rawTool string) (*models.RelintResult, error) {
	tool, err := ValidateToolID(rawTool)
	if err != nil {
		metrics.BlockedRequests.WithLabelValues("validation").Inc()
		s.logger.Info().Str("ip", ip).Str("input", rawTool).Msg("input did not pass validation")
		return nil, err
	}

	if !s.registry.TryAcquire(ip, tool) {
		metrics.BlockedRequests.WithLabelValues("in_flight").Inc()
		s.logger.Info().Str("ip", ip).Str("tool", tool).Msg("ip or tool already linting")
		return nil, ErrDuplicateInFlight
	}
	defer s.registry.Release(ip)

	s.logger.Info().Str("ip", ip).Str("tool", tool).Msg("relinting tool")
	res, err := s.track("tool", func() (JobResult, error) {
		return s.runner.RunTool(ctx, tool)
	})
	if err != nil {
		return nil, err
	}
	return &models.RelintResult{ID: res.ID, Tool: tool, Result: "ok"}, nil
}

// LintJSON runs the analyzer on a posted tool document and returns its
// output. Only the per-IP limit applies; every document gets its own key.
func (s *RelintService) LintJSON(ctx context.Context, ip string, body io.Reader, biotoolsFormat bool) ([]byte, error) {
	key := jsonKeyPrefix + uuid.NewString()
	if !s.registry.TryAcquire(ip, key) {
		metrics.BlockedRequests.WithLabelValues("in_flight").Inc()
		s.logger.Info().Str("ip", ip).Msg("ip already linting")
		return nil, ErrDuplicateInFlight
	}
	defer s.registry.Release(ip)

	res, err := s.track("json", func() (JobResult, error) {
		return s.runner.RunJSON(ctx, body, biotoolsFormat)
	})
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

func (s *RelintService) track(mode string, run func() (JobResult, error)) (JobResult, error) {
	metrics.RelintInFlight.Inc()
	defer metrics.RelintInFlight.Dec()

	start := time.Now()
	res, err := run()
	metrics.RelintJobDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	metrics.RelintJobsTotal.WithLabelValues(mode, outcome(err)).Inc()
	return res, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAnalyzerMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrAnalyzerNoData):
		return "no_data"
	case errors.Is(err, ErrAnalyzerTimeout):
		return "timeout"
	case errors.Is(err, ErrSpawnFailure):
		return "spawn_failure"
	case errors.Is(err, ErrInputUnreadable):
		return "bad_input"
	default:
		return "failed"
	}
}
