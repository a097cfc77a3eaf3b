package reminder

import (
	"context"
	"fmt"
	"time"

	rcron "github.com/robfig/cron/v3"
	"github.com/sandevgo/relancebot/pkg/log"
)

// sweepTimeout bounds one full sweep; a stuck outbound call must not leak
// into the next scheduled run.
const sweepTimeout = 10 * time.Minute

// Scheduler runs the engine's sweep on a cron expression and implements the
// srv.Service lifecycle.
type Scheduler struct {
	engine   *Engine
	schedule string
	cron     *rcron.Cron
}

func NewScheduler(engine *Engine, schedule string) *Scheduler {
	return &Scheduler{
		engine:   engine,
		schedule: schedule,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	s.cron = rcron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
		defer cancel()
		s.engine.Sweep(sweepCtx)
	})
	if err != nil {
		return fmt.Errorf("register reminder sweep %q: %w", s.schedule, err)
	}

	s.cron.Start()
	logger.Info().Str("schedule", s.schedule).Msg("reminder scheduler started")
	return nil
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		log.FromCtx(ctx).Warn().Msg("timeout waiting for running sweep to finish")
	}
	return nil
}
