package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OrphanSweeper removes sub-services whose parent service no longer exists.
type OrphanSweeper interface {
	SweepOrphanSubServices(ctx context.Context) (int64, error)
}

const sweepTimeout = time.Minute

// SweepOnce runs a single sweep and logs the outcome.
func SweepOnce(ctx context.Context, svc OrphanSweeper, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	removed, err := svc.SweepOrphanSubServices(ctx)
	if err != nil {
		logger.Error("orphan sub-service sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		logger.Info("orphan sub-services removed", zap.Int64("removed", removed))
		return
	}
	logger.Debug("orphan sub-service sweep found nothing")
}

// StartOrphanSweeper schedules SweepOnce on a standard five-field cron
// expression. The caller owns the returned scheduler and should Stop it on
// shutdown.
func StartOrphanSweeper(schedule string, svc OrphanSweeper, logger *zap.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("orphan-sweeper")

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() {
		SweepOnce(context.Background(), svc, logger)
	}); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	c.Start()
	logger.Info("orphan sub-service sweeper started", zap.String("schedule", schedule))
	return c, nil
}
