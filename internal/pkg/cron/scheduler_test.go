package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsJobsUntilStopped(t *testing.T) {
	scheduler := NewScheduler()

	var runs atomic.Int64
	scheduler.AddJob("counter", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	scheduler.Start()
	time.Sleep(50 * time.Millisecond)
	scheduler.Stop()

	// One immediate run plus at least one tick
	assert.GreaterOrEqual(t, runs.Load(), int64(2))

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load(), "no runs after Stop")
}

func TestSchedulerRunOnce(t *testing.T) {
	scheduler := NewScheduler()

	var ran atomic.Bool
	scheduler.AddJob("once", time.Hour, func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	scheduler.AddJob("failing", time.Hour, func(ctx context.Context) error {
		return errors.New("job failed")
	})

	scheduler.RunOnce(context.Background())
	require.True(t, ran.Load())
}

type countingSweeper struct {
	calls  atomic.Int64
	result int
	err    error
}

func (s *countingSweeper) SweepStale(ctx context.Context, maxAge time.Duration) (int, error) {
	s.calls.Add(1)
	return s.result, s.err
}

func TestStorageJobsSweepStaging(t *testing.T) {
	sweeper := &countingSweeper{result: 3}
	jobs := NewStorageJobs(sweeper, time.Hour)

	require.NoError(t, jobs.SweepStaging(context.Background()))
	assert.Equal(t, int64(1), sweeper.calls.Load())

	sweeper.err = errors.New("disk gone")
	err := jobs.SweepStaging(context.Background())
	assert.ErrorContains(t, err, "failed to sweep staging")
}
