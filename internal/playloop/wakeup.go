package playloop

import "time"

// SetTimeout arms the next wakeup budget, spec.md §4.1: sleeptime is
// monotonically decreasing within one iteration (invariant 1), so this
// only ever shortens it. If called while already blocked in
// waitEvents with a finite t, the running sleep cannot be shortened in
// place, so force a re-evaluation on the next iteration by waking now.
func (c *Context) SetTimeout(t time.Duration) {
	if t < c.Sleeptime {
		c.Sleeptime = t
	}
	if c.InDispatch && t < infiniteSleep {
		c.wakeup()
	}
}

// Wakeup interrupts the dispatch queue from any goroutine; idempotent.
func (c *Context) Wakeup() {
	c.wakeup()
}

func (c *Context) wakeup() {
	if c.Dispatch != nil {
		c.Dispatch.Interrupt()
	}
}

// waitEvents is the sole blocking point in the playloop body
// (spec.md §4.12 step 14).
func (c *Context) waitEvents() {
	c.InDispatch = true
	if c.Dispatch != nil {
		c.Dispatch.Process(c.Sleeptime)
	}
	c.InDispatch = false
	c.Sleeptime = infiniteSleep
}
