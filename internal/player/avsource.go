package player

import (
	"time"

	"github.com/rowanwave/waves/internal/playloop"
)

// Source adapts a player Interface to playloop.Source. This engine
// decodes a single local, fully-seekable file directly into the sink
// with no separate demux stage or network cache, so the adapter reports
// a permanently idle, never-underrunning reader (spec.md §6 "Demuxer",
// "Decoders" collapsed onto one collaborator; see SPEC_FULL.md §4).
type Source struct {
	p Interface
}

// NewSource wraps p as a playloop.Source. p is typically a *Player, or
// a *Mock in tests.
func NewSource(p Interface) *Source { return &Source{p: p} }

func (s *Source) Duration() playloop.Timestamp {
	d := s.p.Duration()
	if d <= 0 {
		return playloop.NoPTS
	}
	return playloop.PTS(d)
}

func (s *Source) Seekable() bool         { return true }
func (s *Source) TsResetsPossible() bool { return false }
func (s *Source) IsNetwork() bool        { return false }

// Seek translates an absolute target PTS into the delta Player.Seek
// expects. A factor-only request (pts unknown) is resolved against the
// known Duration first; if that too is unknown the seek is a no-op,
// matching a demuxer that can't honor FACTOR without a duration.
func (s *Source) Seek(pts playloop.Timestamp, factor float64, flags playloop.DemuxSeekFlags) error {
	target, ok := pts.Duration()
	if !ok {
		if !flags.Has(playloop.DemuxSeekFactor) {
			return nil
		}
		d := s.p.Duration()
		if d <= 0 {
			return nil
		}
		target = time.Duration(factor * float64(d))
	}
	s.p.Seek(target - s.p.Position())
	return nil
}

// ReaderState reports a reader that is always caught up: a local file
// stream has no separate read-ahead buffer to underrun.
func (s *Source) ReaderState() playloop.ReaderState {
	return playloop.ReaderState{Idle: true, TsDuration: time.Hour}
}

// CacheInfo reports no stream cache, so the cache-pause controller
// treats this source the same way mpv treats a local, non-network file
// (spec.md §4.7 "use_low_cache_pause" stays false).
func (s *Source) CacheInfo() playloop.CacheInfo {
	return playloop.CacheInfo{Idle: true, Size: 0}
}

// Reset is a no-op: beep's streamers carry no separate decode-pipeline
// state to flush beyond the seek Player.Seek already performs.
func (s *Source) Reset() {}

func (s *Source) HasVideo() bool     { return false }
func (s *Source) IsStillImage() bool { return false }
func (s *Source) HasFrame() bool     { return false }

var _ playloop.Source = (*Source)(nil)

// AudioOutput adapts a player Interface to playloop.AudioOutput.
type AudioOutput struct {
	p Interface
}

// NewAudioOutput wraps p as a playloop.AudioOutput.
func NewAudioOutput(p Interface) *AudioOutput { return &AudioOutput{p: p} }

func (a *AudioOutput) HasChain() bool { return a.p.State() != Stopped }

// Ready reports whether beep has a streamer attached and producing
// output. Player.Play runs synchronously before LoadSource arms the
// restart-sync gates, so by the time the playloop asks, playback has
// already started.
func (a *AudioOutput) Ready() bool { return a.p.State() == Playing }

func (a *AudioOutput) Pause()  { a.p.Pause() }
func (a *AudioOutput) Resume() { a.p.Resume() }

// Drain is a no-op: speaker.Clear/Ctrl already serialize against the
// mixer, and Player.Seek performs its own mute-seek-unmute sequence.
func (a *AudioOutput) Drain() {}

var _ playloop.AudioOutput = (*AudioOutput)(nil)
