// Package jobs runs the periodic background work: appointment reminders and
// trial expiry.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Job func(ctx context.Context) error

type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
	ctx  context.Context
	stop context.CancelFunc
}

func NewScheduler(loc *time.Location, log *zap.Logger) *Scheduler {
	log = log.Named("jobs")
	cl := cronLogger{log.Sugar()}

	ctx, stop := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:  log,
		ctx:  ctx,
		stop: stop,
	}
}

// Add registers job under a standard 5-field spec. Each run gets its own
// timeout and is logged with its duration.
func (s *Scheduler) Add(name, spec string, timeout time.Duration, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, timeout, job)
	})
	return err
}

func (s *Scheduler) run(name string, timeout time.Duration, job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.log.Error("job falhou", zap.String("job", name), zap.Duration("took", time.Since(start)), zap.Error(err))
		return
	}
	s.log.Info("job concluído", zap.String("job", name), zap.Duration("took", time.Since(start)))
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.stop()
	<-s.cron.Stop().Done()
}

// cronLogger routes cron's own messages to zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
