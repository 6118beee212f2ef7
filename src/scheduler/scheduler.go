package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"market-dashboard/src/logger"
	"market-dashboard/src/metrics"
)

// Job is one periodic refresh.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// -----------------------------------------------------------------------------
// Scheduler owns polling. Each job runs once at Start and then on its
// interval; a run still in progress makes the next tick skip.
// A scheduler starts at most once: after Start, AddJob fails and a second
// Start (also after Stop) does nothing.
// -----------------------------------------------------------------------------

type Scheduler struct {
	Logger  *logger.Logger
	Metrics *metrics.Metrics // optional

	cron  *cron.Cron
	chain cron.Chain

	// Wrapped jobs; the initial run and the ticks share one skip guard.
	jobs    []cron.Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	running bool
}

// -----------------------------------------------------------------------------

func NewScheduler(log *logger.Logger) *Scheduler {
	return &Scheduler{
		Logger: log,
		cron:   cron.New(),
		chain: cron.NewChain(
			cron.Recover(cronLogger{log}),
			cron.SkipIfStillRunning(cronLogger{log}),
		),
	}
}

// -----------------------------------------------------------------------------

// AddJob registers job to run every interval (rounded down to whole seconds, minimum 1s).
func (s *Scheduler) AddJob(interval time.Duration, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}
	if interval < time.Second {
		interval = time.Second
	}

	spec := fmt.Sprintf("@every %s", interval.Truncate(time.Second))
	wrapped := s.chain.Then(cron.FuncJob(func() { s.run(job) }))
	if _, err := s.cron.AddJob(spec, wrapped); err != nil {
		return fmt.Errorf("register %s: %w", job.Name(), err)
	}
	s.jobs = append(s.jobs, wrapped)
	s.Logger.Info("Job %s registered (%s)", job.Name(), spec)
	return nil
}

// -----------------------------------------------------------------------------

// Start runs every job once in the background, then starts the cron loop.
func (s *Scheduler) Start(parent context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(parent)
	s.ctx, s.cancel = ctx, cancel
	s.started = true
	s.running = true
	jobs := append([]cron.Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.wg.Add(1)
		go func(j cron.Job) {
			defer s.wg.Done()
			j.Run()
		}(job)
	}
	s.cron.Start()
	s.Logger.Info("Scheduler started with %d jobs", len(jobs))
}

// -----------------------------------------------------------------------------

// Stop cancels in-flight runs and waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.Logger.Info("Scheduler stopped")
}

// -----------------------------------------------------------------------------

// RunNow executes job synchronously outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, job Job) error {
	return s.execute(ctx, job)
}

// -----------------------------------------------------------------------------

func (s *Scheduler) run(job Job) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	_ = s.execute(ctx, job)
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	start := time.Now()
	err := job.Run(ctx)
	s.Metrics.ObserveJob(job.Name(), err)
	if err != nil {
		s.Logger.Error("Job %s failed: %v", job.Name(), err)
		return err
	}
	s.Logger.Debug("Job %s completed in %s", job.Name(), time.Since(start))
	return nil
}

// -----------------------------------------------------------------------------

// cronLogger adapts the service logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
