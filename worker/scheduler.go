// Package worker runs periodic maintenance jobs on a cron schedule.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gilby125/hotel-availability/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Cronner is the subset of *cron.Cron the scheduler drives.
type Cronner interface {
	Start()
	Stop() context.Context
	AddFunc(spec string, cmd func()) (cron.EntryID, error)
	Remove(id cron.EntryID)
}

// JobFunc is one run of a scheduled job.
type JobFunc func(ctx context.Context) error

// Scheduler manages named cron jobs.
type Scheduler struct {
	cron    Cronner
	log     *logger.Logger
	timeout time.Duration

	mutex sync.Mutex
	jobs  map[string]job
}

type job struct {
	entry cron.EntryID
	run   JobFunc
}

// NewScheduler creates a scheduler. A nil cronner uses cron.New(); a nil log
// discards output.
func NewScheduler(c Cronner, log *logger.Logger) *Scheduler {
	if c == nil {
		c = cron.New()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Scheduler{
		cron:    c,
		log:     log,
		timeout: 30 * time.Second,
		jobs:    make(map[string]job),
	}
}

// AddJob schedules run under name, replacing any job with the same name.
// spec accepts standard cron expressions and descriptors like "@every 1m".
func (s *Scheduler) AddJob(name, spec string, run JobFunc) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if existing, ok := s.jobs[name]; ok {
		s.cron.Remove(existing.entry)
		delete(s.jobs, name)
	}

	entry, err := s.cron.AddFunc(spec, func() { _ = s.execute(name, run) })
	if err != nil {
		return fmt.Errorf("failed to add cron job %s: %w", name, err)
	}
	s.jobs[name] = job{entry: entry, run: run}
	s.log.Info("Scheduled job", "job", name, "spec", spec)
	return nil
}

// RemoveJob unschedules name. Unknown names are ignored.
func (s *Scheduler) RemoveJob(name string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if existing, ok := s.jobs[name]; ok {
		s.cron.Remove(existing.entry)
		delete(s.jobs, name)
	}
}

// RunNow runs name immediately on the calling goroutine.
func (s *Scheduler) RunNow(name string) error {
	s.mutex.Lock()
	j, ok := s.jobs[name]
	s.mutex.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %s", name)
	}
	return s.execute(name, j.run)
}

// Jobs returns the number of scheduled jobs.
func (s *Scheduler) Jobs() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.jobs)
}

// Start starts the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) execute(name string, run JobFunc) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := run(ctx); err != nil {
		s.log.Error(err, "Job failed", "job", name)
		return err
	}
	s.log.Debug("Job finished", "job", name, "duration", time.Since(start))
	return nil
}
