package playloop

import "time"

// SetPauseState reconciles a user-pause request against cache-pause and
// propagates the effective result to AO/VO (spec.md §4.3).
func (c *Context) SetPauseState(userPause bool, now time.Time) {
	userVisibleChanged := userPause != c.UserPause
	c.UserPause = userPause

	effective := c.UserPause || c.PausedForCache
	if effective != c.Paused {
		c.Paused = effective
		if c.Audio != nil && c.Audio.HasChain() {
			if effective {
				c.Audio.Pause()
			} else {
				c.Audio.Resume()
			}
		}
		if c.Video != nil {
			c.Video.SetPaused(effective)
		}
		c.resetOSD()
		c.forceOSDUpdate()
		c.Wakeup()

		if effective {
			c.StepFrames = 0
			c.enterPauseTime(now)
		} else {
			c.leavePauseTime(now)
		}
	}

	c.updateCoreIdleState()

	if userVisibleChanged {
		if c.UserPause {
			c.emit(Event{Kind: EventPause})
		} else {
			c.emit(Event{Kind: EventUnpause})
		}
	}
}

// UpdateInternalPauseState re-runs reconciliation after
// PausedForCache changes, without touching UserPause (spec.md §4.3).
func (c *Context) UpdateInternalPauseState(now time.Time) {
	c.SetPauseState(c.UserPause, now)
}

// setPausedForCache updates the cache-pause latch and reconciles.
func (c *Context) setPausedForCache(v bool, now time.Time) {
	if v == c.PausedForCache {
		return
	}
	c.PausedForCache = v
	c.UpdateInternalPauseState(now)
}

// resetOSD and forceOSDUpdate stand in for the OSD module named as an
// external collaborator in spec.md §1 ("notified, not implemented
// here"); they emit the OSDUpdate event so a real OSD subscriber can
// react.
func (c *Context) resetOSD() {
	// No per-function OSD state is owned by the core; nothing to reset
	// beyond emitting an update below.
}

func (c *Context) forceOSDUpdate() {
	c.emit(Event{Kind: EventOSDUpdate})
}

// updateCoreIdleState reflects playback_active transitions to the
// screensaver policy and emits CORE_IDLE (spec.md §3 invariant 6).
func (c *Context) updateCoreIdleState() {
	active := c.playbackActive()
	if c.Video != nil {
		c.Video.Control(c.MouseCursorVisible, active && c.Options.StopScreensaver, false)
	}
	if !active {
		c.emit(Event{Kind: EventCoreIdle})
	}
}

// playbackActive computes the derived playback_active predicate of
// spec.md §3.
func (c *Context) playbackActive() bool {
	return !c.Paused && c.RestartComplete && c.Playing && c.InPlayloop && c.StopPlay == KeepPlaying
}
