package playloop

import "time"

// HrSeekMode is the tri-state hr_seek option (spec.md §6).
type HrSeekMode int

const (
	HrSeekOff     HrSeekMode = -1
	HrSeekDefault HrSeekMode = 0
	HrSeekOn      HrSeekMode = 1
)

// CursorAutohide is the cursor_autohide_delay option (spec.md §6):
// -2 forces the cursor hidden, -1 forces it shown, any other value is
// milliseconds of idle time before autohide.
type CursorAutohide int

const (
	CursorForceHide CursorAutohide = -2
	CursorForceShow CursorAutohide = -1
)

// LoopCount is the loop_file option: a non-negative count, or
// LoopInfinite.
type LoopCount int

const LoopInfinite LoopCount = -1

// ForceVOMode is the force_vo option (spec.md §4.10).
type ForceVOMode int

const (
	ForceVONever    ForceVOMode = 0
	ForceVOIfLoaded ForceVOMode = 1
	ForceVOAlways   ForceVOMode = 2
)

// KeepOpenMode is the keep_open option (spec.md §6).
type KeepOpenMode int

const (
	KeepOpenOff    KeepOpenMode = 0
	KeepOpenOn     KeepOpenMode = 1
	KeepOpenAlways KeepOpenMode = 2
)

// Options holds the recognized playback options of spec.md §6.
type Options struct {
	Pause bool

	CorrectPTS      bool
	HrSeek          HrSeekMode
	HrSeekFramedrop bool

	// HrSeekDemuxerOffset biases the hr-seek demuxer target earlier
	// (spec.md §4.4 step 7, §8 scenario 2): demux_pts = seek_pts -
	// max(HrSeekDemuxerOffset, external-track-offset, ...).
	HrSeekDemuxerOffset time.Duration

	CachePause       bool
	CachePauseWait   time.Duration
	CachePauseInitial bool

	ABLoopA, ABLoopB Timestamp

	LoopFile  LoopCount
	LoopTimes int

	KeepOpen      KeepOpenMode
	KeepOpenPause bool

	StepSec time.Duration

	CursorAutohideDelay CursorAutohide
	CursorAutohideFS    bool
	StopScreensaver     bool

	ForceVO ForceVOMode

	PlayingMsg    string
	OSDPlayingMsg string

	PlayFrames int

	IdleMode bool
}

// DefaultOptions returns the option set used when nothing overrides it.
func DefaultOptions() Options {
	return Options{
		CorrectPTS:     true,
		HrSeek:         HrSeekDefault,
		CachePause:     true,
		CachePauseWait: 1 * time.Second,
		LoopFile:       0,
		LoopTimes:      1,
		KeepOpen:       KeepOpenOff,
		ABLoopA:        NoPTS,
		ABLoopB:        NoPTS,
	}
}
