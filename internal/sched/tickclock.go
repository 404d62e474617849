// internal/sched/tickclock.go

package sched

import (
	"context"
	"sync/atomic"
	"time"
)

// TickClock is the single authoritative tick counter. The count is atomic
// so progress can be read from outside the driver's goroutine.
type TickClock struct {
	count    atomic.Int64
	interval time.Duration
	ticker   *time.Ticker
}

// NewTickClock creates a clock. A zero interval advances as fast as the
// driver can step; otherwise Pace holds each tick for the interval.
func NewTickClock(interval time.Duration) *TickClock {
	return &TickClock{interval: interval}
}

// Advance moves virtual time forward by one tick and returns the new count.
func (c *TickClock) Advance() int64 {
	return c.count.Add(1)
}

// Count returns the current tick count atomically.
func (c *TickClock) Count() int64 {
	return c.count.Load()
}

// Pace blocks until the wall-clock interval for the current tick elapsed.
func (c *TickClock) Pace(ctx context.Context) error {
	if c.interval <= 0 {
		return ctx.Err()
	}
	if c.ticker == nil {
		c.ticker = time.NewTicker(c.interval)
	}
	select {
	case <-c.ticker.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop releases the pacing ticker, if any.
func (c *TickClock) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}
