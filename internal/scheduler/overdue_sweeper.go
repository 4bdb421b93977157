package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
	"github.com/SscSPs/property_ledger/internal/middleware"
)

const (
	sweepLockKey = "ledger:overdue-sweep"
	sweepTimeout = 2 * time.Minute
)

// Locker grants a short exclusive lease so only one replica runs a scheduled job per tick.
type Locker interface {
	// TryLock returns a release function when the lease was acquired, or ok=false when held elsewhere.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

// OverdueSweeper runs the overdue sweep for every agency account on a cron schedule.
type OverdueSweeper struct {
	cron     *cron.Cron
	schedule string
	svc      portssvc.OverdueSvc
	locker   Locker
	logger   *slog.Logger
}

// NewOverdueSweeper registers the sweep under schedule. locker may be nil for single-replica deployments.
func NewOverdueSweeper(schedule string, svc portssvc.OverdueSvc, locker Locker, logger *slog.Logger) (*OverdueSweeper, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &OverdueSweeper{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule: schedule,
		svc:      svc,
		locker:   locker,
		logger:   logger.With(slog.String("job", "overdue_sweep")),
	}
	if _, err := s.cron.AddFunc(schedule, func() { _, _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid overdue sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running the schedule in the background.
func (s *OverdueSweeper) Start() {
	s.logger.Info("Overdue sweeper started", slog.String("schedule", s.schedule))
	s.cron.Start()
}

// Stop prevents new runs and waits for a running sweep to finish or ctx to expire.
func (s *OverdueSweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Overdue sweeper stop timed out")
	}
}

// RunOnce performs a single sweep. It returns ran=false when another replica holds the lock.
func (s *OverdueSweeper) RunOnce(ctx context.Context) (ran bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	logger := s.logger.With(slog.String("run_id", uuid.NewString()))
	ctx = middleware.WithLogger(ctx, logger)

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, sweepLockKey, sweepTimeout)
		if err != nil {
			logger.Error("Failed to acquire sweep lock", slog.String("error", err.Error()))
			return false, err
		}
		if !ok {
			logger.Debug("Sweep lock held by another replica, skipping")
			return false, nil
		}
		defer func() {
			if rerr := release(context.Background()); rerr != nil {
				logger.Warn("Failed to release sweep lock", slog.String("error", rerr.Error()))
			}
		}()
	}

	if _, err := s.svc.MarkOverdue(ctx, ""); err != nil {
		return true, err
	}
	return true, nil
}
