package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_CancelReturnsPromptly(t *testing.T) {
	var calls atomic.Int32
	s := New(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil error on cancel, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not return within 2s after cancel")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("cycle calls = %d, want 1 immediate cycle", got)
	}
}

func TestRun_RepeatsOnInterval(t *testing.T) {
	var calls atomic.Int32
	s := New(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, 100*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	// Allow time for the immediate cycle plus at least one tick.
	time.Sleep(250 * time.Millisecond)
	cancel()
	<-done

	if got := calls.Load(); got < 2 {
		t.Errorf("cycle calls = %d, want >= 2", got)
	}
}

func TestRun_ContinuesAfterCycleFailure(t *testing.T) {
	var calls atomic.Int32
	s := New(func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("portal unreachable")
	}, 50*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("a failing cycle must not stop the loop: %v", err)
	}
	if got := calls.Load(); got < 2 {
		t.Errorf("cycle calls = %d, want >= 2 despite failures", got)
	}
}
