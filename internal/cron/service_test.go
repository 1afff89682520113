package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/levelup-gaming/levelup-backend/pkg/logger"
)

type recordingJob struct {
	name string
	runs int
	err  error
}

func (j *recordingJob) Name() string { return j.name }

func (j *recordingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

type fakeLock struct {
	acquired bool
	err      error
	releases int
}

func (l *fakeLock) Acquire(context.Context) (bool, error) { return l.acquired, l.err }

func (l *fakeLock) Release(context.Context) error {
	l.releases++
	return nil
}

func TestRegistryPreservesOrderAndSkipsNil(t *testing.T) {
	first := &recordingJob{name: "first"}
	second := &recordingJob{name: "second"}

	registry := NewRegistry(first, nil, second)
	registry.Register(nil)

	jobs := registry.Jobs()
	if len(jobs) != 2 || jobs[0].Name() != "first" || jobs[1].Name() != "second" {
		t.Fatalf("unexpected jobs: %v", jobs)
	}
}

func TestRunCycleRunsEveryJobAndReleasesLock(t *testing.T) {
	ok := &recordingJob{name: "ok"}
	failing := &recordingJob{name: "failing", err: errors.New("boom")}
	after := &recordingJob{name: "after"}
	lock := &fakeLock{acquired: true}

	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Registry: NewRegistry(ok, failing, after),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	// A failing job never blocks the jobs after it.
	if ok.runs != 1 || failing.runs != 1 || after.runs != 1 {
		t.Fatalf("unexpected run counts: %d %d %d", ok.runs, failing.runs, after.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("expected lock released once, got %d", lock.releases)
	}
}

func TestRunCycleSkipsWhenLockHeldElsewhere(t *testing.T) {
	job := &recordingJob{name: "job"}
	lock := &fakeLock{acquired: false}

	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job should not run without the lock, ran %d times", job.runs)
	}
	if lock.releases != 0 {
		t.Fatalf("lock should not be released when never acquired, got %d", lock.releases)
	}
}
