package playloop

import "time"

// relativeTime returns the seconds elapsed since the previous call and
// advances the monotonic anchor (spec.md §4.2). The very first call
// after construction returns 0.
func (c *Context) relativeTime(now time.Time) time.Duration {
	if c.lastTime.IsZero() {
		c.lastTime = now
		return 0
	}
	d := now.Sub(c.lastTime)
	c.lastTime = now
	return d
}

// RelativeTime is the exported form of relativeTime, used by handlers
// that need a wall-clock delta outside of Run's own bookkeeping.
func (c *Context) RelativeTime(now time.Time) time.Duration {
	return c.relativeTime(now)
}

// enterPauseTime subtracts elapsed pause time from TimeFrame so the
// video scheduler's accumulator is not corrupted by time spent paused
// (spec.md §4.2).
func (c *Context) enterPauseTime(now time.Time) {
	c.TimeFrame -= c.relativeTime(now)
}

// leavePauseTime discards the accumulated delta since pause began
// (spec.md §4.2): the elapsed time is consumed but never applied to
// TimeFrame.
func (c *Context) leavePauseTime(now time.Time) {
	c.relativeTime(now)
}
