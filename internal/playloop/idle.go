package playloop

import "time"

// shouldBeIdle reports the idle-mode entry predicate of spec.md §4.11.
func (c *Context) shouldBeIdle() bool {
	hasEntry := c.Playlist != nil && c.Playlist.HasCurrentEntry()
	return c.Options.IdleMode && !hasEntry && c.StopPlay != PTQuit
}

// UpdateIdle drives the idle sub-loop while shouldBeIdle holds
// (spec.md §4.11). Call this in place of the normal playloop body when
// idle; it blocks for one idle tick (including the wait_events call)
// and returns.
func (c *Context) UpdateIdle(now time.Time) {
	if !c.shouldBeIdle() {
		c.idleEntered = false
		return
	}

	if !c.idleEntered {
		c.idleEntered = true
		if c.Audio != nil {
			c.Audio.Drain()
		}
		c.UpdateForceWindow(true)
		c.Wakeup()
		c.emit(Event{Kind: EventIdle})
	}

	c.idleTick(now)
}

// idleTick is the trimmed playloop body run while idle: dummy ticks,
// input drain, cursor autohide, VO events, OSD message, and the single
// blocking wait_events call.
func (c *Context) idleTick(now time.Time) {
	c.emit(Event{Kind: EventTick})
	c.drainCommands()
	c.updateCursorAutohide(now)
	c.drainVOEvents()
	c.forceOSDUpdate()
	c.waitEvents()
}
