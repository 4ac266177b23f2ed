// Package playloop implements the playback control core: the central
// event loop that coordinates decoding, rendering, seeking,
// buffering-induced pause, end-of-file handling, and loop/step
// semantics. See spec.md for the full design.
package playloop

import (
	"time"

	"github.com/rowanwave/waves/internal/dispatch"
)

// Chapter is a single chapter mark (spec.md §3 "Chapters / loop").
type Chapter struct {
	PTS   Timestamp
	Title string
}

// Context is the single mutable hub (PC in spec.md §3). Exactly one
// goroutine — the one running RunIteration/Run — reads or writes its
// fields; external goroutines communicate only through Dispatch and
// Subscribe.
type Context struct {
	Dispatch *dispatch.Queue
	hub      hub

	Source  Source
	Audio   AudioOutput
	Video   VideoOutput
	Input   Input
	Filter  FilterGraph
	Playlist PlaylistSource

	ExternalTracks []ExternalTrack
	Decoders       []Decoder

	Options Options

	// Clocking
	lastTime       time.Time
	Sleeptime      time.Duration
	InDispatch     bool
	StartTimestamp time.Time
	TimeFrame      time.Duration // video scheduler's frame-time accumulator

	// Playback state
	UserPause      bool
	PausedForCache bool
	Paused         bool // effective = UserPause || PausedForCache
	Playing        bool
	PlaybackInitialized bool
	RestartComplete     bool
	InPlayloop          bool
	StopPlay            StopPlay
	StepFrames          int
	VideoStatus         PipelineStatus
	AudioStatus         PipelineStatus

	// Time & PTS
	PlaybackPTS Timestamp
	LastSeekPTS Timestamp
	LastVOPTS   Timestamp
	VideoPTS    Timestamp

	HrSeekActive    bool
	HrSeekPTS       Timestamp
	HrSeekFramedrop bool
	HrSeekBackstep  bool
	HrSeekLastFrame bool

	// Seek request
	Seek        SeekRequest
	CurrentSeek SeekRequest

	// Caching
	CacheBuffer     float64
	CacheStopTime   time.Time
	NextCacheUpdate time.Time

	// Chapters / loop
	Chapters        []Chapter
	LastChapter     int
	LastChapterSeek int
	LoopFileCount   LoopCount

	ABLoopClip bool

	// Window / cursor
	MouseEventTS       time.Time
	MouseTimer         time.Time
	MouseCursorVisible bool
	mouseEventCounter  int
	forceVOActive      bool

	// Idle loop
	idleEntered bool

	// Audio second-chance seek (spec.md §4.4 step 16)
	AudioAllowSecondChanceSeek bool

	playingMsgShown bool
	lastDummyTick   time.Time
}

// Decoder resets a single decode pipeline (spec.md §6 "Decoders").
type Decoder interface {
	Reset()
}

// NewContext creates a Context ready to run, wired to the given
// collaborators and dispatch queue.
func NewContext(dq *dispatch.Queue, source Source, audio AudioOutput, video VideoOutput, input Input, filter FilterGraph, playlist PlaylistSource, opts Options) *Context {
	c := &Context{
		Dispatch:    dq,
		Source:      source,
		Audio:       audio,
		Video:       video,
		Input:       input,
		Filter:      filter,
		Playlist:    playlist,
		Options:     opts,
		Sleeptime:   time.Duration(1<<63 - 1),
		PlaybackPTS: NoPTS,
		LastSeekPTS: NoPTS,
		LastVOPTS:   NoPTS,
		VideoPTS:    NoPTS,
		LastChapter: -2,
		ABLoopClip:  true,
		LoopFileCount: opts.LoopFile,
		UserPause:   opts.Pause,
	}
	c.Paused = c.UserPause
	return c
}

// Subscribe creates a new event subscription. Must be called on the
// owning goroutine (i.e. from inside a Dispatch.Post closure, or before
// Run starts).
func (c *Context) Subscribe() *Subscription {
	return c.hub.subscribe()
}

// Close shuts down all subscriptions.
func (c *Context) Close() {
	c.hub.closeAll()
}

func (c *Context) emit(e Event) {
	c.hub.emit(e)
}

func (c *Context) emitError(operation string, err error) {
	c.hub.emitError(ErrorEvent{Operation: operation, Err: err})
}

// infiniteSleep is the +∞ sleeptime sentinel (spec.md §3 invariant 1).
const infiniteSleep = time.Duration(1<<63 - 1)
