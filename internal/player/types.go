// internal/player/types.go
package player

import (
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"

	"github.com/rowanwave/waves/internal/tags"
)

// State represents the playback state machine.
//
// Valid transitions:
//   - Stopped → Playing (via Play)
//   - Playing → Paused  (via Pause)
//   - Playing → Stopped (via Stop)
//   - Paused  → Playing (via Resume)
//   - Paused  → Stopped (via Stop)
//
// Toggle() cycles Playing <-> Paused; a no-op while Stopped.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extOPUS = ".opus"
	extOGG  = ".ogg"
	extOGA  = ".oga"
	extM4A  = ".m4a"
	extMP4  = ".mp4"
)

// TrackInfo is the unified tag+audio metadata record: an alias of
// tags.FileInfo so callers across the module share one struct rather
// than converting between two.
type TrackInfo = tags.FileInfo

var (
	speakerInitialized bool
	speakerSampleRate   beep.SampleRate
)

// trackState holds everything owned by a single open track: the file
// handle, its raw and resampled streamers, and its metadata.
type trackState struct {
	file      *os.File
	streamer  beep.StreamSeekCloser
	resampled beep.Streamer
	format    beep.Format
	trackInfo *TrackInfo
}

func (t *trackState) Close() {
	if t.streamer != nil {
		t.streamer.Close()
	}
	if t.file != nil {
		t.file.Close()
	}
}

// Player is a gapless, multi-format audio engine built on gopxl/beep.
type Player struct {
	state State
	ctrl  *beep.Ctrl
	volume *effects.Volume
	gapless *gaplessStreamer

	current *trackState
	next    *trackState

	volumeLevel float64
	muted       bool

	done        chan struct{}
	finishedCh  chan struct{}
	seekChan    chan time.Duration
	monitorDone chan struct{}
	onFinished  func()

	preloadFn func() string
	preloadAt time.Duration
}

// New creates a Player ready to receive Play calls.
func New() *Player {
	p := &Player{
		state:      Stopped,
		done:       make(chan struct{}),
		finishedCh: make(chan struct{}, 1),
		seekChan:   make(chan time.Duration, 1),
		volumeLevel: 1,
		preloadAt:  10 * time.Second,
	}
	go p.seekLoop()
	return p
}

// SetPreloadFunc installs the callback used to fetch the path of the
// next track once playback nears the end of the current one.
func (p *Player) SetPreloadFunc(fn func() string) {
	p.preloadFn = fn
}

// SetPreloadAt configures how much time remains in the current track
// before preloading the next one begins.
func (p *Player) SetPreloadAt(d time.Duration) {
	p.preloadAt = d
}

// State returns the current playback state.
func (p *Player) State() State { return p.state }

// TrackInfo returns metadata for the currently loaded track, or nil.
func (p *Player) TrackInfo() *TrackInfo {
	if p.current == nil {
		return nil
	}
	return p.current.trackInfo
}

// Duration returns the duration of the currently loaded track.
func (p *Player) Duration() time.Duration {
	if p.current == nil || p.current.trackInfo == nil {
		return 0
	}
	return p.current.trackInfo.Duration
}

// OnFinished registers a callback invoked when the track finishes
// naturally (not via an explicit Stop).
func (p *Player) OnFinished(fn func()) {
	p.onFinished = fn
}

// FinishedChan signals once per track completion, including gapless
// transitions and seeks past the end of the stream.
func (p *Player) FinishedChan() <-chan struct{} {
	return p.finishedCh
}

// Done closes when the current track's playback callback has run.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// clearNextTrack releases any preloaded next track. Caller holds
// speaker.Lock (or calls before any streamer exists).
func (p *Player) clearNextTrack() {
	if p.gapless != nil {
		p.gapless.ClearNext()
	}
	if p.next != nil {
		go p.next.Close()
		p.next = nil
	}
}

// IsOpusCodec reports whether the Ogg container at path carries Opus
// packets rather than Vorbis, by sniffing the first page's codec
// identification header.
func IsOpusCodec(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	hdr, err := parseOggPageHeader(f)
	if err != nil {
		return false
	}
	packets, err := readOggPageBody(f, hdr)
	if err != nil || len(packets) == 0 {
		return false
	}
	return len(packets[0]) >= 8 && string(packets[0][:8]) == "OpusHead"
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
