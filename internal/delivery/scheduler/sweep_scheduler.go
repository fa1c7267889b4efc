// Package scheduler runs the periodic expiry sweep as a delivery next to the API server.
package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"rutopia/config"
	"rutopia/internal/delivery"
	"rutopia/internal/domain/lifecycle"
	"rutopia/internal/usecase"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// cronLogger adapts slog.Logger to cron.Logger
type cronLogger struct {
	logger *slog.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}

type sweepScheduler struct {
	cfg     *config.Config
	logger  *slog.Logger
	sweeper usecase.ExpirySweeper
	cron    *cron.Cron
	stopped chan struct{}

	// mu orders cron.Start against stop so a stopped scheduler never starts.
	mu       sync.Mutex
	stopping bool
}

// SchedulerParams holds dependencies for the sweep scheduler, injected by Fx.
type SchedulerParams struct {
	fx.In

	Lc      fx.Lifecycle
	Cfg     *config.Config
	Logger  *slog.Logger
	Sweeper usecase.ExpirySweeper
}

// NewSweepScheduler registers the expiry sweep on the configured cron schedule.
// Reads sweep on their own, so the schedule only bounds how long an overdue alert
// keeps its stored active flag while nobody is reading.
func NewSweepScheduler(params SchedulerParams) (delivery.Delivery, error) {
	logger := params.Logger.With(slog.String("component", "sweep_scheduler"))
	s := &sweepScheduler{
		cfg:     params.Cfg,
		logger:  logger,
		sweeper: params.Sweeper,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(
				cron.Recover(&cronLogger{logger: logger}),
				cron.SkipIfStillRunning(&cronLogger{logger: logger}),
			),
		),
		stopped: make(chan struct{}),
	}

	if _, err := s.cron.AddFunc(params.Cfg.Sweeper.Schedule, s.runSweep); err != nil {
		return nil, errors.Wrapf(err, "invalid sweeper schedule %q", params.Cfg.Sweeper.Schedule)
	}

	params.Lc.Append(fx.Hook{
		OnStop: s.stop,
	})

	return s, nil
}

// Serve starts the cron loop and blocks until the scheduler is stopped.
func (s *sweepScheduler) Serve(ctx context.Context) error {
	if !s.cfg.Sweeper.Enabled {
		s.logger.Info("Expiry sweep schedule disabled, alerts expire on read only")

		return nil
	}

	if !s.start() {
		return nil
	}

	select {
	case <-ctx.Done():
		return nil
	case <-s.stopped:
		return nil
	}
}

func (s *sweepScheduler) start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopping {
		return false
	}

	s.logger.Info("Starting expiry sweep scheduler", slog.String("schedule", s.cfg.Sweeper.Schedule))
	s.cron.Start()

	return true
}

func (s *sweepScheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	if _, err := s.sweeper.Sweep(ctx); err != nil {
		s.logger.Warn("Scheduled expiry sweep failed", slog.Any("error", err))
	}
}

func (s *sweepScheduler) stop(ctx context.Context) error {
	s.logger.Info("Stopping expiry sweep scheduler")

	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()

		return nil
	}
	s.stopping = true
	done := s.cron.Stop().Done()
	s.mu.Unlock()
	defer close(s.stopped)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for running sweep")
	}
}
