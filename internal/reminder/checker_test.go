package reminder

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marwold/stickpad/internal/testutil"
)

type countingScanner struct {
	calls atomic.Int64
}

func (s *countingScanner) CheckReminders(now time.Time) {
	s.calls.Add(1)
}

func TestRunScansImmediately(t *testing.T) {
	scanner := &countingScanner{}
	c := NewChecker(scanner, time.Hour, testutil.Logger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	deadline := time.Now().Add(time.Second)
	for scanner.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no scan before first tick")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v", err)
	}
}

func TestRunScansOnTicks(t *testing.T) {
	scanner := &countingScanner{}
	c := NewChecker(scanner, 5*time.Millisecond, testutil.Logger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	deadline := time.Now().Add(time.Second)
	for scanner.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("calls = %d, want at least 3", scanner.calls.Load())
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done
}

func TestNewCheckerIntervalFallback(t *testing.T) {
	c := NewChecker(&countingScanner{}, 0, testutil.Logger())
	if c.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", c.interval, DefaultInterval)
	}
}
