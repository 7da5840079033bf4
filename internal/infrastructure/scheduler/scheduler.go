// Package scheduler runs periodic background jobs such as sitemap publishing
// and cache warmup on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobFunc is the work a job performs
type JobFunc func(ctx context.Context) error

// Job is a named unit of work on a cron schedule
type Job struct {
	Name     string
	Schedule string
	Run      JobFunc
}

// JobState is a snapshot of a registered job
type JobState struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Status      JobStatus  `json:"status"`
	Error       string     `json:"error,omitempty"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	LastElapsed string     `json:"last_elapsed,omitempty"`
	NextRunAt   *time.Time `json:"next_run_at,omitempty"`
	Runs        int        `json:"runs"`
	Failures    int        `json:"failures"`
}

type registeredJob struct {
	job     Job
	entryID cron.EntryID
	state   JobState
	running bool
}

// Scheduler wraps a cron runner with per-job timeouts and run bookkeeping
type Scheduler struct {
	cron       *cron.Cron
	jobTimeout time.Duration
	logger     *zap.Logger

	mu      sync.Mutex
	jobs    map[string]*registeredJob
	started bool
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New creates a scheduler. Jobs run at most jobTimeout each.
func New(jobTimeout time.Duration, logger *zap.Logger) *Scheduler {
	if jobTimeout <= 0 {
		jobTimeout = 5 * time.Minute
	}
	cl := cronLogger{logger: logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		jobTimeout: jobTimeout,
		logger:     logger,
		jobs:       make(map[string]*registeredJob),
		baseCtx:    ctx,
		cancel:     cancel,
	}
}

// Register adds a job. The schedule uses the standard five-field cron
// syntax or descriptors such as "@hourly".
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("%w: job needs a name and a function", ErrInvalidConfig)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.Name]; ok {
		return fmt.Errorf("%w: %s", ErrJobAlreadyRegistered, job.Name)
	}

	rj := &registeredJob{
		job:   job,
		state: JobState{Name: job.Name, Schedule: job.Schedule, Status: JobStatusPending},
	}
	id, err := s.cron.AddFunc(job.Schedule, func() {
		if err := s.execute(s.baseCtx, rj); err != nil && !errors.Is(err, ErrJobRunning) {
			s.logger.Warn("Scheduled job failed", zap.String("job", job.Name), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("%w: job %s schedule %q: %v", ErrInvalidConfig, job.Name, job.Schedule, err)
	}
	rj.entryID = id
	s.jobs[job.Name] = rj

	s.logger.Info("Job registered", zap.String("job", job.Name), zap.String("schedule", job.Schedule))
	return nil
}

// Start starts the cron runner in its own goroutine
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop stops scheduling new runs and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		s.cancel()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.cancel()
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// RunNow runs a job immediately, outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	rj, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.execute(ctx, rj)
}

// Jobs returns a snapshot of every registered job, sorted by name
func (s *Scheduler) Jobs() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobState, 0, len(s.jobs))
	for _, rj := range s.jobs {
		state := rj.state
		if next := s.cron.Entry(rj.entryID).Next; !next.IsZero() {
			state.NextRunAt = &next
		}
		out = append(out, state)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scheduler) execute(ctx context.Context, rj *registeredJob) error {
	s.mu.Lock()
	if rj.running {
		s.mu.Unlock()
		s.logger.Debug("Skipping overlapping job run", zap.String("job", rj.job.Name))
		return ErrJobRunning
	}
	rj.running = true
	started := time.Now()
	rj.state.Status = JobStatusRunning
	rj.state.LastRunAt = &started
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	err := rj.job.Run(ctx)
	elapsed := time.Since(started)

	s.mu.Lock()
	rj.running = false
	rj.state.Runs++
	rj.state.LastElapsed = elapsed.Round(time.Millisecond).String()
	if err != nil {
		rj.state.Status = JobStatusFailed
		rj.state.Error = err.Error()
		rj.state.Failures++
	} else {
		rj.state.Status = JobStatusSuccess
		rj.state.Error = ""
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("job %s: %w", rj.job.Name, err)
	}
	s.logger.Info("Job completed", zap.String("job", rj.job.Name), zap.Duration("elapsed", elapsed))
	return nil
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
