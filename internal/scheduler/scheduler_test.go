// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/olegiv/themepicker/internal/testutil"
)

func TestValidate(t *testing.T) {
	for _, spec := range []string{"@every 5m", "@daily", "*/5 * * * *"} {
		if err := Validate(spec); err != nil {
			t.Errorf("Validate(%q) = %v", spec, err)
		}
	}
	for _, spec := range []string{"", "soon", "* * *"} {
		if err := Validate(spec); err == nil {
			t.Errorf("Validate(%q) = nil, want error", spec)
		}
	}
}

func TestAdd(t *testing.T) {
	s := New(testutil.DiscardLogger(), time.Second)
	noop := func(context.Context) error { return nil }

	if err := s.Add(Job{Name: "rescan", Schedule: "@every 1h", Run: noop}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(Job{Name: "rescan", Schedule: "@every 2h", Run: noop}); err == nil {
		t.Error("duplicate job name should fail")
	}
	if err := s.Add(Job{Name: "bad", Schedule: "never", Run: noop}); err == nil {
		t.Error("invalid schedule should fail")
	}
	if err := s.Add(Job{Name: "disabled", Run: noop}); err != nil {
		t.Errorf("empty schedule should be ignored, got %v", err)
	}

	jobs := s.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("Jobs = %v, want only rescan", jobs)
	}
	if _, ok := jobs["rescan"]; !ok {
		t.Error("rescan not registered")
	}
}

func TestRunNowPassesDeadline(t *testing.T) {
	s := New(testutil.DiscardLogger(), time.Second)

	var hasDeadline bool
	s.RunNow(Job{Name: "deadline-check", Run: func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return errors.New("logged, not returned")
	}})

	if !hasDeadline {
		t.Error("job context should carry a deadline")
	}
}

func TestStartStop(t *testing.T) {
	s := New(testutil.DiscardLogger(), time.Second)
	ran := make(chan struct{}, 1)

	if err := s.Add(Job{Name: "tick", Schedule: "@every 1s", Run: func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
