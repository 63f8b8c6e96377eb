package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeRefresher struct {
	calls atomic.Int32
	ok    bool
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) (string, bool, error) {
	f.calls.Add(1)
	if _, has := ctx.Deadline(); !has {
		return "", false, errors.New("expected a deadline")
	}
	if !f.ok {
		return "", false, f.err
	}
	return "req-1", true, nil
}

func TestStartDisabled(t *testing.T) {
	r := &fakeRefresher{ok: true}
	s := New(0, r)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	if s.scheduler.IsRunning() {
		t.Fatalf("expected scheduler not to run with a zero interval")
	}
}

func TestRunOnce(t *testing.T) {
	for _, r := range []*fakeRefresher{
		{ok: true},
		{ok: false},
		{ok: false, err: errors.New("store unavailable")},
	} {
		New(time.Minute, r).runOnce()
		if r.calls.Load() != 1 {
			t.Fatalf("expected one refresh, got %d", r.calls.Load())
		}
	}
}

func TestStartRefreshesPeriodically(t *testing.T) {
	r := &fakeRefresher{ok: true}
	s := New(time.Second, r)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	if r.calls.Load() != 0 {
		t.Fatalf("expected the first refresh to wait for the interval")
	}

	deadline := time.Now().Add(5 * time.Second)
	for r.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if r.calls.Load() == 0 {
		t.Fatalf("expected a scheduled refresh")
	}
}
