package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const runTimeout = 15 * time.Minute

// Scheduler runs a digest job on a cron spec.
type Scheduler struct {
	ctx  context.Context
	cron *cron.Cron
	spec string
	job  func(context.Context)
	log  *slog.Logger
}

func New(
	ctx context.Context,
	spec string,
	job func(context.Context),
	log *slog.Logger,
) *Scheduler {
	return &Scheduler{
		ctx:  ctx,
		cron: cron.New(cron.WithLocation(time.UTC)),
		spec: spec,
		job:  job,
		log:  log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(s.ctx, runTimeout)
	defer cancel()

	if ctx.Err() != nil {
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())

		return
	}

	s.job(ctx)
}
