package playloop

import (
	"math"
	"time"
)

// HandleEOF implements spec.md §4.8 handle_eof.
func (c *Context) HandleEOF() {
	if c.Source == nil {
		return
	}
	if c.AudioStatus != StatusEOF || c.VideoStatus != StatusEOF {
		return
	}
	if c.StopPlay != KeepPlaying {
		return
	}
	if c.pausedShowingLastFrame() {
		return
	}
	c.StopPlay = AtEndOfFile
}

func (c *Context) pausedShowingLastFrame() bool {
	return c.Paused && c.Source != nil && c.Source.HasFrame()
}

// HandleLoopFile implements spec.md §4.8 handle_loop_file.
func (c *Context) HandleLoopFile(now time.Time) {
	if c.StopPlay != AtEndOfFile {
		return
	}

	if c.Options.ABLoopA.Valid() || c.Options.ABLoopB.Valid() {
		target := c.Options.ABLoopA
		amount := 0.0
		if v, ok := target.Duration(); ok {
			amount = v.Seconds()
		}
		c.QueueSeek(SeekRequest{Type: SeekAbsolute, Amount: amount, Exact: SeekExact, Flags: SeekFlagNoFlush})
		c.ExecuteQueuedSeek(now)
		return
	}

	if c.LoopFileCount != 0 {
		c.QueueSeek(SeekRequest{Type: SeekAbsolute, Amount: 0, Exact: SeekDefault, Flags: SeekFlagNoFlush})
		c.ExecuteQueuedSeek(now)
		if c.LoopFileCount > 0 {
			c.LoopFileCount--
		}
	}
}

// HandleKeepOpen implements spec.md §4.8 handle_keep_open.
func (c *Context) HandleKeepOpen(now time.Time) {
	if c.Options.KeepOpen == KeepOpenOff || c.StopPlay != AtEndOfFile {
		return
	}
	hasNext := c.Playlist != nil && c.Playlist.HasNextEntry()
	if c.Options.KeepOpen != KeepOpenAlways && hasNext {
		return
	}
	if c.Options.LoopTimes != 1 {
		return
	}

	c.StopPlay = KeepPlaying
	// seekToLastFrame resets LastVOPTS, so read it before seeking.
	lastVOPTS := c.LastVOPTS
	if c.Source == nil || !c.Source.HasFrame() {
		c.seekToLastFrame(now)
	}
	c.PlaybackPTS = lastVOPTS
	if c.Options.KeepOpenPause {
		c.SetPauseState(true, now)
	}
}

// seekToLastFrame synthesizes a very-exact absolute seek to the end of
// the stream, marking hrseek state so the video scheduler retains
// whatever last frame it finds (spec.md §4.8).
func (c *Context) seekToLastFrame(now time.Time) {
	target := c.Source.Duration()
	amount := 0.0
	if v, ok := target.Duration(); ok {
		amount = v.Seconds()
	}
	c.QueueSeek(SeekRequest{Type: SeekAbsolute, Amount: amount, Exact: SeekVeryExact})
	c.ExecuteQueuedSeek(now)
	if c.HrSeekActive {
		c.HrSeekPTS = PTS(time.Duration(math.MaxInt64))
		c.HrSeekLastFrame = true
	}
}

// HandleSStep implements spec.md §4.8 handle_sstep.
func (c *Context) HandleSStep(now time.Time) {
	if c.Options.StepSec > 0 {
		c.QueueSeek(SeekRequest{Type: SeekRelative, Amount: c.Options.StepSec.Seconds(), Exact: SeekDefault})
	}
	if c.StopPlay == AtEndOfFile && c.StepFrames > 0 {
		c.SetPauseState(true, now)
	}
}
