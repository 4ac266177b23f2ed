package playloop

import "time"

const dummyTickInterval = 50 * time.Millisecond
const osdRedrawWindow = 100 * time.Millisecond

// EncoderFailed is an optional hook consulted at the start of each
// iteration (spec.md §4.12 step 1). A nil hook means no encoder is
// attached and this step is a no-op.
type EncoderFailed func() bool

// RunIteration executes one pass of the playloop body in the fixed
// order of spec.md §4.12. Call it repeatedly (typically from Run) with
// the current wall-clock time.
func (c *Context) RunIteration(now time.Time, encoderFailed EncoderFailed) {
	c.InPlayloop = true
	defer func() { c.InPlayloop = false }()

	// 1. Fail-fast on encoder error.
	if encoderFailed != nil && encoderFailed() {
		c.StopPlay = PTQuit
		return
	}

	// 2. Refresh demuxer properties: this player's Source reports live
	// state on every call, so there is nothing to refresh explicitly.

	// 3. Push/pull frames through the complex filter graph.
	if c.Filter != nil {
		if err := c.Filter.SendFrame(); err != nil {
			c.emitError("filter-send-frame", err)
		}
	}

	// 4. Cursor autohide; VO event drain; command-queue updates.
	c.updateCursorAutohide(now)
	c.drainVOEvents()
	c.drainCommands()

	// 5. Process the complex filter graph; reflect failure as EOF.
	if c.Filter != nil {
		if err := c.Filter.Process(); err != nil {
			c.emitError("filter-process", err)
			c.AudioStatus = StatusEOF
			c.VideoStatus = StatusEOF
		}
	}

	// 6. Fill audio output; write video: writing itself is delegated to
	// the Source/Audio/Video collaborators' own internal buffering, but
	// the loop still has to observe when that filling makes the chain
	// ready (spec.md §3 "restart_complete, in_playloop" gates).
	c.fillAudioOutput()

	// 7. Playback-restart sync.
	c.HandlePlaybackRestart(now)

	// 8. Update playback_pts.
	c.updatePlaybackTime()

	// 9. Dummy tick while EOF/paused.
	if (c.StopPlay == AtEndOfFile || c.Paused) && now.Sub(c.lastDummyTick) >= dummyTickInterval {
		c.lastDummyTick = now
		pos, _ := c.PlaybackPTS.Duration()
		c.emit(Event{Kind: EventTick, Position: pos})
	}

	// 10. Update OSD.
	c.forceOSDUpdate()

	// 11. EOF / loop-file / keep-open / step handlers.
	c.HandleEOF()
	c.HandleLoopFile(now)
	c.HandleKeepOpen(now)
	c.HandleSStep(now)

	// 12. Update idle; bail if stop_play.
	if c.shouldBeIdle() {
		c.UpdateIdle(now)
		return
	}
	c.idleEntered = false
	if c.StopPlay != KeepPlaying {
		return
	}

	// 13. OSD redraw handler.
	if now.Sub(c.StartTimestamp) < osdRedrawWindow {
		c.SetTimeout(osdRedrawWindow)
	}

	// 14. wait_events: the sole blocking point.
	c.waitEvents()

	// 15. Cache-pause controller; input drain; chapter change notify;
	// force-window(false); execute queued seek.
	c.UpdateCachePause(now)
	c.drainCommands()
	c.UpdateChapter(c.currentTime())
	c.UpdateForceWindow(false)
	c.ExecuteQueuedSeek(now)
}

// Run drives RunIteration until stop_play becomes PT_QUIT or until
// stopCh is closed, whichever happens first. The caller is expected to
// run this on its own goroutine: Run owns Context for its duration.
func (c *Context) Run(stopCh <-chan struct{}, encoderFailed EncoderFailed) {
	c.Playing = true
	for {
		select {
		case <-stopCh:
			return
		default:
		}
		c.RunIteration(time.Now(), encoderFailed)
		if c.StopPlay == PTQuit {
			return
		}
	}
}
