// Package monitor holds observers that record what the driver reports.
package monitor

// clock counts the ticks an observer has seen. Transitions reported during
// a tick carry the tick's number because AdvanceTime comes last.
type clock struct {
	now int64
}

func (c *clock) AdvanceTime() { c.now++ }

// Now returns the number of completed ticks.
func (c *clock) Now() int64 { return c.now }
