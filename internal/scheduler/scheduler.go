// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"time"

	"anoa.com/assignmenthub/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Job is a unit of background work.
type Job interface {
	// Name identifies the job in logs.
	Name() string
	// Schedule is a cron spec ("@every 12h", "0 3 * * *"). An empty schedule
	// registers the job for on-demand runs only.
	Schedule() string
	Execute(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	jobs    []Job
	timeout time.Duration
}

// New returns a scheduler that bounds every run by timeout; zero means no
// bound.
func New(timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: timeout,
	}
}

// Register adds job and schedules it when it has a schedule.
func (s *Scheduler) Register(job Job) error {
	s.jobs = append(s.jobs, job)

	schedule := job.Schedule()
	if schedule == "" {
		logger.Log.WithField("job", job.Name()).Info("registered on-demand job")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.run(context.Background(), job) }); err != nil {
		return err
	}

	logger.Log.WithField("job", job.Name()).WithField("schedule", schedule).Info("scheduled job")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Log.WithField("jobs", len(s.jobs)).Info("scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Log.Info("scheduler stopped")
}

// RunByName executes a registered job immediately. It reports whether the
// job exists.
func (s *Scheduler) RunByName(ctx context.Context, name string) (bool, error) {
	for _, job := range s.jobs {
		if job.Name() == name {
			return true, s.run(ctx, job)
		}
	}
	return false, nil
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	entry := logger.Log.WithField("job", job.Name())
	started := time.Now()
	entry.Debug("job started")

	if err := job.Execute(ctx); err != nil {
		entry.WithError(err).Error("job failed")
		return err
	}

	entry.WithField("duration", time.Since(started).String()).Info("job completed")
	return nil
}
