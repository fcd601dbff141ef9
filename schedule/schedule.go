// Package schedule runs recurring background jobs, such as sweeping
// abandoned upload spill files out of a directory.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type TaskFunc func(ctx context.Context) error

type Job struct {
	name      string
	interval  time.Duration
	timeout   time.Duration
	tasks     []TaskFunc
	nextRunAt time.Time

	mu sync.Mutex
}

func NewJob() *Job {
	return &Job{
		tasks: make([]TaskFunc, 0),
	}
}

func (job *Job) WithName(name string) *Job {
	job.name = name
	return job
}

func (job *Job) WithInterval(interval time.Duration) *Job {
	job.interval = interval
	return job
}

func (job *Job) WithTimeout(timeout time.Duration) *Job {
	job.timeout = timeout
	return job
}

func (job *Job) AddTask(task TaskFunc) *Job {
	job.tasks = append(job.tasks, task)
	return job
}

func (job *Job) shouldRun(now time.Time) bool {
	job.mu.Lock()
	defer job.mu.Unlock()

	if job.nextRunAt.After(now) {
		return false
	}
	job.nextRunAt = now.Add(job.interval)
	return true
}

type Scheduler struct {
	jobs   []*Job
	logger *slog.Logger
	mu     sync.RWMutex
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		jobs:   make([]*Job, 0),
		logger: logger,
	}
}

func (scheduler *Scheduler) AddJob(job *Job) error {
	if job.interval <= 0 {
		return fmt.Errorf("schedule: job interval must be greater than 0")
	}
	if len(job.tasks) == 0 {
		return fmt.Errorf("schedule: job must have at least one task")
	}
	if job.nextRunAt.IsZero() {
		job.nextRunAt = time.Now().Add(job.interval)
	}

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.jobs = append(scheduler.jobs, job)
	return nil
}

// Run ticks once a second and fires due jobs until ctx is cancelled.
func (scheduler *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			scheduler.mu.RLock()
			jobs := make([]*Job, len(scheduler.jobs))
			copy(jobs, scheduler.jobs)
			scheduler.mu.RUnlock()

			now := time.Now()
			for _, job := range jobs {
				if job.shouldRun(now) {
					go scheduler.runJob(ctx, job)
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (scheduler *Scheduler) runJob(ctx context.Context, job *Job) {
	if job.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.timeout)
		defer cancel()
	}

	for _, task := range job.tasks {
		if err := task(ctx); err != nil {
			scheduler.logger.Error("scheduled task failed", "job", job.name, "error", err)
		}
	}
}
