package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleStatisticsDisabled(t *testing.T) {
	c, err := ScheduleStatistics(context.Background(), "", SnapshotFunc(func(context.Context) error { return nil }), zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestScheduleStatisticsInvalidSpec(t *testing.T) {
	_, err := ScheduleStatistics(context.Background(), "not a schedule", SnapshotFunc(func(context.Context) error { return nil }), zerolog.Nop())
	assert.Error(t, err)
}

func TestScheduleStatisticsRuns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	c, err := ScheduleStatistics(ctx, "@every 1s", SnapshotFunc(func(context.Context) error {
		runs.Add(1)
		return nil
	}), zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
