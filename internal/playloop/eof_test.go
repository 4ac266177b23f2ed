package playloop

import (
	"testing"
	"time"
)

func TestHandleEOFSetsStopPlay(t *testing.T) {
	c, _, _, _ := newTestContext()
	c.AudioStatus = StatusEOF
	c.VideoStatus = StatusEOF

	c.HandleEOF()

	if c.StopPlay != AtEndOfFile {
		t.Fatalf("expected AtEndOfFile, got %v", c.StopPlay)
	}
}

func TestHandleEOFHoldsOnPausedLastFrame(t *testing.T) {
	c, src, _, _ := newTestContext()
	c.AudioStatus = StatusEOF
	c.VideoStatus = StatusEOF
	c.Paused = true
	src.hasFrame = true

	c.HandleEOF()

	if c.StopPlay != KeepPlaying {
		t.Fatal("must not signal EOF while paused on a still-displayed last frame")
	}
}

func TestHandleLoopFileReseeksToStart(t *testing.T) {
	c, src, _, _ := newTestContext()
	c.StopPlay = AtEndOfFile
	c.LoopFileCount = 3
	now := time.Now()

	c.HandleLoopFile(now)

	if len(src.seekCalls) != 1 {
		t.Fatalf("expected a reseek to loop, got %d calls", len(src.seekCalls))
	}
	if c.LoopFileCount != 2 {
		t.Fatalf("expected loop count decremented to 2, got %d", c.LoopFileCount)
	}
}

func TestHandleLoopFileInfiniteNeverDecrements(t *testing.T) {
	c, src, _, _ := newTestContext()
	c.StopPlay = AtEndOfFile
	c.LoopFileCount = LoopInfinite
	now := time.Now()

	c.HandleLoopFile(now)

	if c.LoopFileCount != LoopInfinite {
		t.Fatalf("expected loop count to remain infinite, got %d", c.LoopFileCount)
	}
	if len(src.seekCalls) != 1 {
		t.Fatal("expected a reseek to occur")
	}
}

func TestHandleKeepOpenHoldsAtEOF(t *testing.T) {
	c, _, _, _ := newTestContext()
	c.Options.KeepOpen = KeepOpenOn
	c.Options.LoopTimes = 1
	c.StopPlay = AtEndOfFile
	c.LastVOPTS = PTS(90 * time.Second)
	now := time.Now()

	c.HandleKeepOpen(now)

	if c.StopPlay != KeepPlaying {
		t.Fatal("keep-open must clear AtEndOfFile and hold the player open")
	}
	d, ok := c.PlaybackPTS.Duration()
	if !ok || d != 90*time.Second {
		t.Fatalf("expected playback_pts pinned to the last video pts, got %v", d)
	}
}

func TestHandleKeepOpenSkippedWhenNextEntryExists(t *testing.T) {
	c, _, _, _ := newTestContext()
	pl := c.Playlist.(*fakePlaylist)
	pl.hasNext = true
	c.Options.KeepOpen = KeepOpenOn
	c.Options.LoopTimes = 1
	c.StopPlay = AtEndOfFile

	c.HandleKeepOpen(time.Now())

	if c.StopPlay != AtEndOfFile {
		t.Fatal("keep-open=on must defer to advancing the playlist when a next entry exists")
	}
}

func TestHandleSStepPausesAfterSteppedEOF(t *testing.T) {
	c, _, _, _ := newTestContext()
	c.StopPlay = AtEndOfFile
	c.StepFrames = 1

	c.HandleSStep(time.Now())

	if !c.Paused {
		t.Fatal("expected a pause after stepping into end of file")
	}
}
