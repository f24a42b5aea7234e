package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type LobbySweeper interface {
	SweepIdle(ctx context.Context, olderThan time.Time) (int, error)
}

// Scheduler runs the periodic housekeeping jobs: for now, removing lobbies
// nobody has touched for the idle TTL.
type Scheduler struct {
	sched   gocron.Scheduler
	sweeper LobbySweeper
	idleTTL time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// New builds the scheduler. Pass gocron.WithDistributedElector when several
// instances share one database.
func New(sweeper LobbySweeper, interval, idleTTL time.Duration, logger *zap.Logger, opts ...gocron.SchedulerOption) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	s := &Scheduler{
		sched:   sched,
		sweeper: sweeper,
		idleTTL: idleTTL,
		logger:  logger,
		now:     time.Now,
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.sweepLobbies),
		gocron.WithName("lobby-sweeper"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule lobby sweeper: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) sweepLobbies() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.sweeper.SweepIdle(ctx, s.now().Add(-s.idleTTL))
	if err != nil {
		s.logger.Error("lobby sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("idle lobbies removed", zap.Int("count", removed))
	}
}
