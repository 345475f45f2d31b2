package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Snapshotter appends one statistics bucket.
type Snapshotter interface {
	Snapshot(ctx context.Context) error
}

// SnapshotFunc adapts a function to Snapshotter.
type SnapshotFunc func(ctx context.Context) error

func (f SnapshotFunc) Snapshot(ctx context.Context) error { return f(ctx) }

// ScheduleStatistics runs svc on the cron spec until ctx is done. An empty
// spec disables the job and returns nil.
func ScheduleStatistics(ctx context.Context, spec string, svc Snapshotter, logger zerolog.Logger) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}
	logger = logger.With().Str("job", "statistics").Logger()

	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := c.AddFunc(spec, func() {
		jobCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()
		start := time.Now()
		if err := svc.Snapshot(jobCtx); err != nil {
			logger.Error().Err(err).Msg("statistics snapshot failed")
			return
		}
		logger.Info().Dur("duration", time.Since(start)).Msg("statistics snapshot done")
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Info().Str("schedule", spec).Msg("statistics snapshots scheduled")
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return c, nil
}
