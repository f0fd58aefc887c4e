package worker

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// DefaultJobTimeout bounds a single run of a scheduled job.
const DefaultJobTimeout = 10 * time.Minute

// Scheduler runs jobs on cron specs ("@every 1h", "0 30 3 * * *"). A job
// still running when its next tick arrives is skipped for that tick.
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	running map[string]bool
}

func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		log:     log.Named("scheduler"),
		timeout: DefaultJobTimeout,
		running: make(map[string]bool),
	}
}

// Add registers job under name.
func (s *Scheduler) Add(spec, name string, job func(ctx context.Context) error) error {
	return s.cron.AddFunc(spec, func() { s.run(name, job) })
}

func (s *Scheduler) run(name string, job func(ctx context.Context) error) {
	s.mu.Lock()
	if s.running[name] {
		s.mu.Unlock()
		s.log.Warn("previous run still in progress, skipping", zap.String("job", name))
		return
	}
	s.running[name] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.running, name)
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	start := time.Now()
	if err := job(ctx); err != nil {
		s.log.Error("job failed", zap.String("job", name), zap.Duration("took", time.Since(start)), zap.Error(err))
		return
	}
	s.log.Debug("job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
}

func (s *Scheduler) Start() { s.cron.Start() }

func (s *Scheduler) Stop() { s.cron.Stop() }

// SessionExpirer is implemented by the plan editor.
type SessionExpirer interface {
	Sweep(ctx context.Context, now time.Time) int
}

// OrphanJob adapts a Sweeper to Scheduler.Add.
func OrphanJob(s *Sweeper) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.Sweep(ctx)
		return err
	}
}

// SessionJob drops expired editing sessions and their old exports.
func SessionJob(e SessionExpirer) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		e.Sweep(ctx, time.Now())
		return nil
	}
}
