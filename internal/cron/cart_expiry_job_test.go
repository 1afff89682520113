package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/levelup-gaming/levelup-backend/pkg/logger"
)

type fakeCartExpirer struct {
	pages []int
	err   error

	calls     int
	lastTTL   time.Duration
	lastLimit int
}

func (f *fakeCartExpirer) ExpireStaleCarts(_ context.Context, olderThan time.Duration, limit int) (int, error) {
	f.calls++
	f.lastTTL = olderThan
	f.lastLimit = limit
	if f.err != nil {
		return 0, f.err
	}
	if len(f.pages) == 0 {
		return 0, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func newCartExpiryJob(t *testing.T, carts *fakeCartExpirer, batch int) Job {
	t.Helper()
	job, err := NewCartExpiryJob(CartExpiryJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Carts:     carts,
		TTL:       14 * 24 * time.Hour,
		BatchSize: batch,
	})
	if err != nil {
		t.Fatalf("NewCartExpiryJob: %v", err)
	}
	return job
}

func TestCartExpiryJobDrainsBacklogInBatches(t *testing.T) {
	carts := &fakeCartExpirer{pages: []int{50, 50, 12}}
	job := newCartExpiryJob(t, carts, 50)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if carts.calls != 3 {
		t.Fatalf("expected 3 sweeps, got %d", carts.calls)
	}
	if carts.lastTTL != 14*24*time.Hour {
		t.Fatalf("unexpected ttl %s", carts.lastTTL)
	}
	if carts.lastLimit != 50 {
		t.Fatalf("unexpected limit %d", carts.lastLimit)
	}
}

func TestCartExpiryJobPropagatesErrors(t *testing.T) {
	carts := &fakeCartExpirer{err: errors.New("boom")}
	job := newCartExpiryJob(t, carts, 50)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewCartExpiryJobValidation(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})

	if _, err := NewCartExpiryJob(CartExpiryJobParams{Carts: &fakeCartExpirer{}, TTL: time.Hour}); err == nil {
		t.Fatal("expected error for missing logger")
	}
	if _, err := NewCartExpiryJob(CartExpiryJobParams{Logger: logg, TTL: time.Hour}); err == nil {
		t.Fatal("expected error for missing cart service")
	}
	if _, err := NewCartExpiryJob(CartExpiryJobParams{Logger: logg, Carts: &fakeCartExpirer{}}); err == nil {
		t.Fatal("expected error for missing ttl")
	}
}
