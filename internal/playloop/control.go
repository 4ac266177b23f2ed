package playloop

import "time"

// LoadSource begins playback of a new Source. This is the "coarse user
// intent" entry point the client-API binding layer calls after
// resolving what file to play next (spec.md §1 overview); it hands the
// loop a fresh collaborator and arms the startup gates of spec.md §3
// ("playing, playback_initialized, restart_complete, in_playloop —
// loading and startup gates").
func (c *Context) LoadSource(source Source, chapters []Chapter, now time.Time) {
	c.Source = source
	c.Chapters = chapters
	c.LastChapter = -2
	c.LastChapterSeek = -1
	c.LoopFileCount = c.Options.LoopFile

	c.PlaybackInitialized = true
	c.Playing = true
	c.RestartComplete = false
	c.StopPlay = KeepPlaying
	c.playingMsgShown = false

	if source != nil {
		c.VideoStatus = StatusSyncing
		c.AudioStatus = StatusSyncing
		if !source.HasVideo() {
			c.VideoStatus = StatusReady
		}
	}

	c.resetPlaybackState()
	c.StartTimestamp = now
	c.Wakeup()
}

// StopPlayback tears down the active source (spec.md §1's outer driver
// reacts to stop_play; this clears the loading gates so shouldBeIdle
// can take over on the next iteration).
func (c *Context) StopPlayback() {
	c.Playing = false
	c.PlaybackInitialized = false
	c.RestartComplete = false
	c.VideoStatus = StatusNone
	c.AudioStatus = StatusNone
	c.Source = nil
	c.updateCoreIdleState()
}

// TogglePause flips the user-pause state (spec.md §4.3).
func (c *Context) TogglePause(now time.Time) {
	c.SetPauseState(!c.UserPause, now)
}

// fillAudioOutput promotes AudioStatus from syncing to ready once the
// audio collaborator reports its chain is primed (spec.md §4.12 step
// 6). VideoStatus needs no equivalent promotion here: LoadSource
// already fast-tracks video-less sources straight to ready.
func (c *Context) fillAudioOutput() {
	if c.AudioStatus == StatusSyncing && c.Audio != nil && c.Audio.Ready() {
		c.AudioStatus = StatusReady
	}
}
