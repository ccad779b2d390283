package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type job struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
}

// Scheduler runs registered jobs on fixed intervals. Jobs receive the
// scheduler's context and are expected to stop between units of work when it
// is cancelled; Stop waits for in-flight runs to return.
type Scheduler struct {
	mu     sync.Mutex
	jobs   []job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{ctx: ctx, cancel: cancel}
}

// AddJob registers a job to run every interval. The first run fires as soon
// as Start is called, not after the first tick.
func (s *Scheduler) AddJob(name string, interval time.Duration, run func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job{name: name, interval: interval, run: run})
	slog.Info("Cron: Job registered", "name", name, "interval", interval)
}

// Start launches one goroutine per registered job.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, jb := range s.jobs {
		s.wg.Add(1)
		go s.loop(jb)
	}
	slog.Info("Cron: Scheduler started", "jobs", len(s.jobs))
}

// Stop cancels the scheduler context and waits for running jobs to return.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron: Scheduler stopped")
}

func (s *Scheduler) loop(jb job) {
	defer s.wg.Done()

	ticker := time.NewTicker(jb.interval)
	defer ticker.Stop()

	s.runJob(jb)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runJob(jb)
		}
	}
}

func (s *Scheduler) runJob(jb job) {
	start := time.Now()
	if err := jb.run(s.ctx); err != nil {
		slog.Error("Cron: Job failed", "name", jb.name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("Cron: Job completed", "name", jb.name, "duration", time.Since(start))
}
