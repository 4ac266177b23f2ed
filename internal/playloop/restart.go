package playloop

import "time"

// HandlePlaybackRestart implements spec.md §4.6. Returns early if
// either pipeline has not yet reached STATUS_READY.
func (c *Context) HandlePlaybackRestart(now time.Time) {
	if c.VideoStatus < StatusReady || c.AudioStatus < StatusReady {
		return
	}

	// 1. Cache-pause-initial latch.
	if c.Options.CachePauseInitial && (c.VideoStatus == StatusReady || c.AudioStatus == StatusReady) {
		c.setPausedForCache(true, now)
		c.CacheBuffer = 0
	}

	// 2. Promote video READY -> PLAYING.
	if c.VideoStatus == StatusReady {
		c.VideoStatus = StatusPlaying
		// Consume the timer delta so promotion doesn't look like a
		// frame-time jump.
		c.relativeTime(now)
		c.Wakeup()
	}

	// 3. Audio handling.
	if c.AudioStatus == StatusReady {
		if c.Seek.Type != SeekNone && c.VideoStatus == StatusPlaying {
			c.updatePlaybackTime()
			c.ExecuteQueuedSeek(now)
			return
		}
		c.AudioStatus = StatusPlaying
	}

	// 4. Completion.
	if !c.RestartComplete {
		c.HrSeekActive = false
		c.RestartComplete = true
		c.CurrentSeek = SeekRequest{}
		c.updatePlaybackTime()
		c.emit(Event{Kind: EventPlaybackRestart})
		c.updateCoreIdleState()
		if !c.playingMsgShown {
			c.playingMsgShown = true
			if c.Options.PlayingMsg != "" || c.Options.OSDPlayingMsg != "" {
				c.emit(Event{Kind: EventOSDUpdate, Message: c.Options.PlayingMsg})
			}
		}
		c.reevaluateABLoopClip()
		c.Wakeup()
	}
}

// updatePlaybackTime refreshes PlaybackPTS from the best currently
// known position (spec.md §4.10 "Time/position accessors").
func (c *Context) updatePlaybackTime() {
	if c.VideoPTS.Valid() {
		c.PlaybackPTS = c.VideoPTS
		return
	}
	if c.LastSeekPTS.Valid() {
		c.PlaybackPTS = c.LastSeekPTS
	}
}

func (c *Context) reevaluateABLoopClip() {
	if b, ok := c.Options.ABLoopB.Duration(); ok {
		if lp, ok2 := c.LastSeekPTS.Duration(); ok2 {
			c.ABLoopClip = lp < b
			return
		}
	}
	c.ABLoopClip = true
}
