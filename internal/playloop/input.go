package playloop

import "time"

// drainCommands pulls and dispatches pending input commands
// (spec.md §4.12 step 4/15). Command interpretation (seek/pause/etc.)
// belongs to the client-API binding layer, which posts onto Dispatch;
// here we only drain so the input collaborator's queue doesn't grow
// unbounded and so its delay hint can inform the next SetTimeout.
func (c *Context) drainCommands() {
	if c.Input == nil {
		return
	}
	for {
		_, ok := c.Input.ReadCommand()
		if !ok {
			break
		}
	}
	c.SetTimeout(c.Input.GetDelay())
}

// updateCursorAutohide implements the cursor-autohide half of §4.10's
// "VO/window housekeeping" share: tracks mouse activity and hides the
// cursor after cursor_autohide_delay of inactivity.
func (c *Context) updateCursorAutohide(now time.Time) {
	if c.Input == nil || c.Video == nil {
		return
	}

	counter := c.Input.MouseEventCounter()
	if counter != c.mouseEventCounter {
		c.mouseEventCounter = counter
		c.MouseEventTS = now
	}

	switch c.Options.CursorAutohideDelay {
	case CursorForceHide:
		c.setCursorVisible(false)
		return
	case CursorForceShow:
		c.setCursorVisible(true)
		return
	}

	if !c.Options.CursorAutohideFS {
		c.setCursorVisible(true)
		return
	}

	delay := time.Duration(c.Options.CursorAutohideDelay) * time.Millisecond
	elapsed := now.Sub(c.MouseEventTS)
	if elapsed >= delay {
		c.setCursorVisible(false)
	} else {
		c.setCursorVisible(true)
		c.SetTimeout(delay - elapsed)
	}
}

func (c *Context) setCursorVisible(v bool) {
	if c.MouseCursorVisible == v {
		return
	}
	c.MouseCursorVisible = v
}

// drainVOEvents pumps the video-output event queue (spec.md §4.12 step
// 4) and reflects resizes/state changes as events.
func (c *Context) drainVOEvents() {
	if c.Video == nil {
		return
	}
	ev := c.Video.QueryAndResetEvents()
	if ev.Resized {
		c.emit(Event{Kind: EventWinResize})
	}
	if ev.StateChanged {
		c.emit(Event{Kind: EventWinState})
	}
}
