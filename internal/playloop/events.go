package playloop

import "time"

// EventKind enumerates the events emitted to client/scripts (spec.md §6
// "Emitted events").
type EventKind int

const (
	EventCoreIdle EventKind = iota
	EventPause
	EventUnpause
	EventSeek
	EventTick
	EventCacheUpdate
	EventChapterChange
	EventPlaybackRestart
	EventIdle
	EventVideoReconfig
	EventWinResize
	EventWinState
	EventOSDUpdate
)

func (k EventKind) String() string {
	switch k {
	case EventCoreIdle:
		return "core-idle"
	case EventPause:
		return "pause"
	case EventUnpause:
		return "unpause"
	case EventSeek:
		return "seek"
	case EventTick:
		return "tick"
	case EventCacheUpdate:
		return "cache-update"
	case EventChapterChange:
		return "chapter-change"
	case EventPlaybackRestart:
		return "playback-restart"
	case EventIdle:
		return "idle"
	case EventVideoReconfig:
		return "video-reconfig"
	case EventWinResize:
		return "win-resize"
	case EventWinState:
		return "win-state"
	case EventOSDUpdate:
		return "osd-update"
	default:
		return "unknown"
	}
}

// Event is a single emitted notification. Fields beyond Kind are
// populated according to Kind; zero values are used where irrelevant.
type Event struct {
	Kind EventKind

	// EventCacheUpdate
	CacheBuffer float64

	// EventChapterChange
	ChapterIndex int

	// EventSeek / EventPlaybackRestart / EventTick
	Position time.Duration

	// EventOSDUpdate
	Message string
}

// ErrorEvent is emitted when a collaborator failure surfaces
// (spec.md §7 "Propagation").
type ErrorEvent struct {
	Operation string
	Err       error
}
