package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// StaleSweeper is implemented by storage backends that stage writes on the
// local filesystem before publishing them.
type StaleSweeper interface {
	SweepStale(ctx context.Context, maxAge time.Duration) (int, error)
}

// StorageJobs bundles periodic maintenance of the storage backend.
type StorageJobs struct {
	sweeper StaleSweeper
	maxAge  time.Duration
}

func NewStorageJobs(sweeper StaleSweeper, maxAge time.Duration) *StorageJobs {
	return &StorageJobs{
		sweeper: sweeper,
		maxAge:  maxAge,
	}
}

// SweepStaging removes staging artifacts that outlived any plausible upload,
// usually left behind by a crash mid-write.
func (j *StorageJobs) SweepStaging(ctx context.Context) error {
	removed, err := j.sweeper.SweepStale(ctx, j.maxAge)
	if err != nil {
		return fmt.Errorf("failed to sweep staging: %w", err)
	}

	if removed > 0 {
		slog.Info("Swept stale staging files", "count", removed)
	}
	return nil
}
