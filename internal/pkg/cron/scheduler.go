package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/observability"
)

// Job is a function run on a fixed interval
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration // per run; zero means Interval
	Fn       func(ctx context.Context) error
}

// Scheduler runs registered jobs until its context is cancelled
type Scheduler struct {
	mu      sync.Mutex
	jobs    []Job
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	started bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AddJob registers a job. Jobs added after Start are ignored.
func (s *Scheduler) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		slog.Warn("cron job registered after start", "name", job.Name)
		return
	}
	s.jobs = append(s.jobs, job)
}

// Start launches every job in its own goroutine. Each job runs once immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}

	slog.Info("cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels all jobs and waits for running ones to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// RunOnce runs every job once, sequentially
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		execute(ctx, job)
	}
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	execute(ctx, job)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			execute(ctx, job)
		}
	}
}

func execute(ctx context.Context, job Job) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = job.Interval
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := job.Fn(runCtx); err != nil {
		observability.JobRuns().WithLabelValues(job.Name, "error").Inc()
		slog.Error("cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return
	}
	observability.JobRuns().WithLabelValues(job.Name, "ok").Inc()
	slog.Debug("cron job completed", "name", job.Name, "duration", time.Since(start))
}
