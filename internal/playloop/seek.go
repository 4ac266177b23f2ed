package playloop

import (
	"math"
	"time"
)

// delayGateWindow is the 300ms window of spec.md §4.4
// execute_queued_seek.
const delayGateWindow = 300 * time.Millisecond

// QueueSeek coalesces a new seek request into the pending one
// (spec.md §4.4). It never performs the seek itself; execution happens
// later, from ExecuteQueuedSeek.
func (c *Context) QueueSeek(req SeekRequest) {
	c.Wakeup()
	if c.StopPlay == AtEndOfFile {
		c.StopPlay = KeepPlaying
	}

	switch req.Type {
	case SeekNone:
		c.Seek = SeekRequest{}
		return

	case SeekRelative:
		switch c.Seek.Type {
		case SeekFactor:
			// Deliberate: dropping the new request here is "not common
			// enough" to warrant better coalescing (spec.md §9 Open
			// Questions) — do not invent smarter merging.
			return
		case SeekAbsolute:
			c.Seek.Flags |= req.Flags
			if req.Exact > c.Seek.Exact {
				c.Seek.Exact = req.Exact
			}
			return
		case SeekRelative:
			c.Seek.Amount += req.Amount
			c.Seek.Flags |= req.Flags
			if req.Exact > c.Seek.Exact {
				c.Seek.Exact = req.Exact
			}
			c.Seek.Type = SeekRelative
		default:
			c.Seek = req
		}

	case SeekAbsolute, SeekFactor, SeekBackstep:
		c.Seek = req
	}
}

// ExecuteQueuedSeek runs the coalesced seek, or defers it, per
// spec.md §4.4.
func (c *Context) ExecuteQueuedSeek(now time.Time) {
	if c.Seek.Type == SeekNone {
		return
	}

	if c.Seek.Flags.Has(SeekFlagDelay) && !c.RestartComplete && now.Sub(c.StartTimestamp) < delayGateWindow {
		return
	}

	if c.Seek.Exact == SeekKeyframe && c.HrSeekActive {
		c.StartTimestamp = time.Time{} // -∞: invalidate the delay gate
	}

	req := c.Seek
	c.doSeek(req, now)
	c.Seek = SeekRequest{}
}

// currentTime is the position used as the base for relative/backstep
// seeks (spec.md §4.4 step 2): playback_pts if known, else the target
// of the most recent seek.
func (c *Context) currentTime() Timestamp {
	if c.PlaybackPTS.Valid() {
		return c.PlaybackPTS
	}
	return c.LastSeekPTS
}

// doSeek is the seek executor of spec.md §4.4, step-numbered to match.
func (c *Context) doSeek(req SeekRequest, now time.Time) {
	// 1. Abort if no demuxer, request type NONE, or amount is NOPTS.
	if c.Source == nil || req.Type == SeekNone {
		return
	}
	if req.Type != SeekBackstep && math.IsNaN(req.Amount) {
		return
	}

	// 2. Resolve current_time.
	current := c.currentTime()
	if req.Type == SeekRelative && !current.Valid() {
		return
	}
	if !current.Valid() {
		current = PTS(0)
	}

	// 3. Compute target seek_pts and initial demux_flags.
	var seekPTS Timestamp
	var demuxFlags DemuxSeekFlags
	forcedVeryExact := false

	switch req.Type {
	case SeekAbsolute:
		seekPTS = PTS(time.Duration(req.Amount * float64(time.Second)))
	case SeekBackstep:
		seekPTS = current
		forcedVeryExact = true
	case SeekRelative:
		seekPTS = current.Add(time.Duration(req.Amount * float64(time.Second)))
		if req.Amount > 0 {
			demuxFlags |= DemuxSeekForward
		}
	case SeekFactor:
		dur := c.Source.Duration()
		if d, ok := dur.Duration(); ok && d >= 0 {
			seekPTS = PTS(time.Duration(req.Amount * float64(d)))
		} else {
			seekPTS = NoPTS
		}
	}

	exact := req.Exact
	if forcedVeryExact {
		exact = SeekVeryExact
	}

	// 4. Decide hr_seek.
	hrSeek := c.Options.CorrectPTS && exact != SeekKeyframe && seekPTS.Valid() &&
		((c.Options.HrSeek == HrSeekOff && req.Type == SeekAbsolute) ||
			c.Options.HrSeek == HrSeekOn ||
			exact >= SeekExact)

	// 5. Invalidate chapter seek if backward, factor, or
	// absolute-before-last-chapter.
	backward := (req.Type == SeekRelative && req.Amount < 0) || req.Type == SeekBackstep
	beforeLastChapter := req.Type == SeekAbsolute && c.chapterPTS(c.LastChapter).Valid() && seekLess(seekPTS, c.chapterPTS(c.LastChapter))
	if backward || req.Type == SeekFactor || beforeLastChapter {
		c.LastChapterSeek = -1
	}

	// 6. FACTOR passthrough when not hr and demuxer resets timestamps
	// or pts is unknown.
	demuxPTS := seekPTS
	factorPassthrough := req.Type == SeekFactor && !hrSeek && (c.Source.TsResetsPossible() || !seekPTS.Valid())
	if factorPassthrough {
		demuxFlags |= DemuxSeekFactor
		demuxPTS = NoPTS
	}

	// 7. hr-seek bias.
	if hrSeek {
		bias := c.Options.HrSeekDemuxerOffset
		if exact == SeekVeryExact {
			bias = maxDuration(bias, 500*time.Millisecond)
		}
		for _, tr := range c.ExternalTracks {
			if off := tr.Offset(); off < 0 {
				bias = maxDuration(bias, -off)
			}
		}
		demuxPTS = demuxPTS.Add(-bias)
		demuxFlags |= DemuxSeekHR
		demuxFlags &^= DemuxSeekForward
	}

	// 8. Best-effort seek if the demuxer isn't seekable.
	if !c.Source.Seekable() {
		demuxFlags |= DemuxSeekCached
	}

	// 9. Execute against the main demuxer.
	var factorArg float64
	if factorPassthrough {
		factorArg = req.Amount
	}
	if err := c.Source.Seek(demuxPTS, factorArg, demuxFlags); err != nil {
		c.emitError("seek", err)
		return
	}

	// 10. External tracks always get their own offset.
	for _, tr := range c.ExternalTracks {
		target := seekPTS.Add(tr.Offset())
		if err := tr.Seek(target); err != nil {
			c.emitError("seek-external-track", err)
		}
	}

	// 11. Flush AO unless NOFLUSH.
	if !req.Flags.Has(SeekFlagNoFlush) && c.Audio != nil {
		c.Audio.Drain()
	}

	// 12. Reset decode pipelines.
	c.resetPlaybackState()

	// 13. Recorder discontinuity: out of scope (spec.md §1, "notified,
	// not implemented here"); nothing to do.

	// 14. Latch seek target / hr-seek state.
	c.LastSeekPTS = seekPTS
	if hrSeek {
		c.HrSeekActive = true
		c.HrSeekFramedrop = exact != SeekVeryExact && c.Options.HrSeekFramedrop
		c.HrSeekBackstep = req.Type == SeekBackstep
		c.HrSeekPTS = seekPTS
	}

	// 15. Clear EOF stop, mark seek time, wake, notify.
	if c.StopPlay == AtEndOfFile {
		c.StopPlay = KeepPlaying
	}
	c.StartTimestamp = now
	c.Wakeup()
	pos, _ := seekPTS.Duration()
	c.emit(Event{Kind: EventSeek, Position: pos})
	c.emit(Event{Kind: EventTick, Position: pos})

	// 16. Let audio retry an overshot backward seek.
	c.AudioAllowSecondChanceSeek = !hrSeek && !demuxFlags.Has(DemuxSeekForward)

	// 17. Re-evaluate the AB-loop clip flag.
	if b, ok := c.Options.ABLoopB.Duration(); ok {
		if lp, ok2 := c.LastSeekPTS.Duration(); ok2 {
			c.ABLoopClip = lp < b
		}
	}
}

func seekLess(a, b Timestamp) bool {
	less, ok := a.Less(b)
	return ok && less
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

// resetPlaybackState drains the filter graph, resets decoders, clears
// per-file PTS fields, and zeroes hr-seek flags (spec.md §4.5).
func (c *Context) resetPlaybackState() {
	if c.Filter != nil {
		c.Filter.Drain()
	}
	for _, d := range c.Decoders {
		d.Reset()
	}

	c.PlaybackPTS = NoPTS
	c.LastSeekPTS = NoPTS
	c.VideoPTS = NoPTS
	c.LastVOPTS = NoPTS

	c.HrSeekActive = false
	c.HrSeekPTS = NoPTS
	c.HrSeekFramedrop = false
	c.HrSeekBackstep = false
	c.HrSeekLastFrame = false

	c.CurrentSeek = SeekRequest{}
	c.StepFrames = 0
	c.ABLoopClip = true
	c.RestartComplete = false

	// Encoder discontinuity notification: out of scope collaborator
	// (spec.md §1).

	c.updateCoreIdleState()
}
