// Package reminder drives the periodic due-reminder scan.
package reminder

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the scan cadence. The fire tolerance in the scan is
// wider than one interval, so a due reminder is never skipped between scans.
const DefaultInterval = time.Minute

// Scanner is the due-reminder check the checker drives.
type Scanner interface {
	CheckReminders(now time.Time)
}

// Checker runs a Scanner on a fixed cadence.
type Checker struct {
	scanner  Scanner
	interval time.Duration
	logger   *slog.Logger
}

// NewChecker creates a checker. A non-positive interval falls back to
// DefaultInterval.
func NewChecker(scanner Scanner, interval time.Duration, logger *slog.Logger) *Checker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Checker{scanner: scanner, interval: interval, logger: logger}
}

// Run scans immediately, then on every tick until ctx is canceled.
func (c *Checker) Run(ctx context.Context) error {
	c.logger.Info("reminder checker started", slog.Duration("interval", c.interval))
	c.scanner.CheckReminders(time.Now())

	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("reminder checker stopped")
			return ctx.Err()
		case now := <-t.C:
			c.scanner.CheckReminders(now)
		}
	}
}
