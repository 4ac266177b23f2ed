package playback

import (
	"time"

	"github.com/rowanwave/waves/internal/playloop"
)

// noVideo stands in for playloop.VideoOutput. This player never decodes
// real video, only embedded cover art surfaced through TrackInfo, so
// there is no window or frame pipeline for the playloop core to drive.
type noVideo struct{}

func (noVideo) SetPaused(bool)      {}
func (noVideo) Reconfig(int, int) error { return nil }
func (noVideo) Redraw()             {}
func (noVideo) QueryAndResetEvents() playloop.VideoEvents {
	return playloop.VideoEvents{}
}
func (noVideo) Control(bool, bool, bool) {}
func (noVideo) Destroy()                 {}

var _ playloop.VideoOutput = noVideo{}

// noInput stands in for playloop.Input. Client commands arrive through
// the Service method calls, not a polled command queue, so there is
// nothing for the playloop core to drain here.
type noInput struct{}

func (noInput) ReadCommand() (playloop.Command, bool) { return playloop.Command{}, false }
func (noInput) GetDelay() time.Duration                { return 0 }
func (noInput) MouseEventCounter() int                 { return 0 }

var _ playloop.Input = noInput{}

// noFilter stands in for playloop.FilterGraph: this engine has no
// complex filter graph, only the fixed beep effects chain already
// applied by the player itself.
type noFilter struct{}

func (noFilter) Process() error   { return nil }
func (noFilter) SendFrame() error { return nil }
func (noFilter) Drain()           {}

var _ playloop.FilterGraph = noFilter{}
