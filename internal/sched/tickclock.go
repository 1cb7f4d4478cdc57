// internal/sched/tickclock.go

package sched

// TickClock is a virtual discrete clock running from 0 up to a horizon.
// It replaces wall-clock ticks so that a simulated trace is deterministic.
type TickClock struct {
	next    int
	horizon int
}

// NewTickClock creates a clock that yields ticks 0..horizon-1.
func NewTickClock(horizon int) *TickClock {
	return &TickClock{horizon: horizon}
}

// Tick returns the next time unit, or false once the horizon is reached.
func (c *TickClock) Tick() (int, bool) {
	if c.next >= c.horizon {
		return c.next, false
	}
	now := c.next
	c.next++
	return now, true
}

// Count returns how many ticks have been emitted.
func (c *TickClock) Count() int {
	return c.next
}
