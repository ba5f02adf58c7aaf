// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: filesystem theme
// rescans and event log pruning.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named periodic task.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler runs jobs on cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration

	mu   sync.Mutex
	jobs map[string]cron.EntryID
}

// New creates a scheduler. Each job run gets a context bounded by timeout.
func New(logger *slog.Logger, timeout time.Duration) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		cron:    cron.New(),
		logger:  logger,
		timeout: timeout,
		jobs:    make(map[string]cron.EntryID),
	}
}

// Validate parses spec with the scheduler's parser.
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Add registers a job. An empty schedule disables the job.
func (s *Scheduler) Add(job Job) error {
	if job.Schedule == "" {
		s.logger.Debug("job disabled", "job", job.Name)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.jobs[job.Name]; dup {
		return fmt.Errorf("job %q already registered", job.Name)
	}

	id, err := s.cron.AddFunc(job.Schedule, func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", job.Name, err)
	}
	s.jobs[job.Name] = id
	return nil
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.logger.Error("scheduled job failed", "job", job.Name, "error", err)
		return
	}
	s.logger.Debug("scheduled job finished", "job", job.Name, "duration", time.Since(start))
}

// RunNow executes a registered or unregistered job immediately.
func (s *Scheduler) RunNow(job Job) {
	s.run(job)
}

// Jobs returns the registered job names with their next run time.
func (s *Scheduler) Jobs() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]time.Time, len(s.jobs))
	for name, id := range s.jobs {
		out[name] = s.cron.Entry(id).Next
	}
	return out
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}
