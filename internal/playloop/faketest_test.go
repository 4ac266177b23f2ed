package playloop

import "time"

// fakeSource is a minimal Source test double, grounded on
// internal/player/mock.go's "Mock" idiom: plain fields, Set* helpers,
// call-recording slices.
type fakeSource struct {
	duration         Timestamp
	seekable         bool
	tsResetsPossible bool
	isNetwork        bool
	hasVideo         bool
	isStillImage     bool
	hasFrame         bool

	readerState ReaderState
	cacheInfo   CacheInfo

	seekCalls  []seekCall
	seekErr    error
	resetCalls int
}

type seekCall struct {
	pts    Timestamp
	factor float64
	flags  DemuxSeekFlags
}

func newFakeSource() *fakeSource {
	return &fakeSource{seekable: true, duration: PTS(100 * time.Second)}
}

func (f *fakeSource) Duration() Timestamp         { return f.duration }
func (f *fakeSource) Seekable() bool               { return f.seekable }
func (f *fakeSource) TsResetsPossible() bool        { return f.tsResetsPossible }
func (f *fakeSource) IsNetwork() bool               { return f.isNetwork }
func (f *fakeSource) ReaderState() ReaderState      { return f.readerState }
func (f *fakeSource) CacheInfo() CacheInfo          { return f.cacheInfo }
func (f *fakeSource) Reset()                        { f.resetCalls++ }
func (f *fakeSource) HasVideo() bool                { return f.hasVideo }
func (f *fakeSource) IsStillImage() bool            { return f.isStillImage }
func (f *fakeSource) HasFrame() bool                { return f.hasFrame }

func (f *fakeSource) Seek(pts Timestamp, factor float64, flags DemuxSeekFlags) error {
	f.seekCalls = append(f.seekCalls, seekCall{pts, factor, flags})
	return f.seekErr
}

var _ Source = (*fakeSource)(nil)

// fakeAudio is a minimal AudioOutput test double.
type fakeAudio struct {
	hasChain    bool
	ready       bool
	pauseCalls  int
	resumeCalls int
	drainCalls  int
}

func (f *fakeAudio) HasChain() bool { return f.hasChain }
func (f *fakeAudio) Ready() bool    { return f.ready }
func (f *fakeAudio) Pause()         { f.pauseCalls++ }
func (f *fakeAudio) Resume()        { f.resumeCalls++ }
func (f *fakeAudio) Drain()         { f.drainCalls++ }

var _ AudioOutput = (*fakeAudio)(nil)

// fakeVideo is a minimal VideoOutput test double.
type fakeVideo struct {
	paused        bool
	reconfigCalls int
	reconfigErr   error
	redrawCalls   int
	destroyCalls  int
	events        VideoEvents
}

func (f *fakeVideo) SetPaused(p bool) { f.paused = p }
func (f *fakeVideo) Reconfig(w, h int) error {
	f.reconfigCalls++
	return f.reconfigErr
}
func (f *fakeVideo) Redraw()                                           { f.redrawCalls++ }
func (f *fakeVideo) QueryAndResetEvents() VideoEvents                  { ev := f.events; f.events = VideoEvents{}; return ev }
func (f *fakeVideo) Control(cursorVisible, screensaverBlocked, fullscreen bool) {}
func (f *fakeVideo) Destroy()                                          { f.destroyCalls++ }

var _ VideoOutput = (*fakeVideo)(nil)

// fakeInput is a minimal Input test double.
type fakeInput struct {
	commands []Command
	delay    time.Duration
	mouseCtr int
}

func (f *fakeInput) ReadCommand() (Command, bool) {
	if len(f.commands) == 0 {
		return Command{}, false
	}
	cmd := f.commands[0]
	f.commands = f.commands[1:]
	return cmd, true
}
func (f *fakeInput) GetDelay() time.Duration  { return f.delay }
func (f *fakeInput) MouseEventCounter() int   { return f.mouseCtr }

var _ Input = (*fakeInput)(nil)

// fakePlaylist is a minimal PlaylistSource test double.
type fakePlaylist struct {
	hasCurrent      bool
	hasNext         bool
	prefetchCalls   int
}

func (f *fakePlaylist) HasCurrentEntry() bool { return f.hasCurrent }
func (f *fakePlaylist) HasNextEntry() bool    { return f.hasNext }
func (f *fakePlaylist) PrefetchNext()         { f.prefetchCalls++ }

var _ PlaylistSource = (*fakePlaylist)(nil)

// fakeFilter is a minimal FilterGraph test double.
type fakeFilter struct {
	processErr   error
	sendFrameErr error
	drainCalls   int
}

func (f *fakeFilter) Process() error   { return f.processErr }
func (f *fakeFilter) SendFrame() error { return f.sendFrameErr }
func (f *fakeFilter) Drain()           { f.drainCalls++ }

var _ FilterGraph = (*fakeFilter)(nil)

// fakeExternalTrack is a minimal ExternalTrack test double.
type fakeExternalTrack struct {
	offset    time.Duration
	seekCalls []Timestamp
}

func (f *fakeExternalTrack) Offset() time.Duration { return f.offset }
func (f *fakeExternalTrack) Seek(pts Timestamp) error {
	f.seekCalls = append(f.seekCalls, pts)
	return nil
}

var _ ExternalTrack = (*fakeExternalTrack)(nil)

// newTestContext builds a Context wired to fresh fakes, without a real
// dispatch.Queue (tests call handlers directly rather than running the
// loop).
func newTestContext() (*Context, *fakeSource, *fakeAudio, *fakeVideo) {
	src := newFakeSource()
	audio := &fakeAudio{hasChain: true, ready: true}
	video := &fakeVideo{}
	opts := DefaultOptions()
	c := NewContext(nil, src, audio, video, &fakeInput{}, &fakeFilter{}, &fakePlaylist{}, opts)
	return c, src, audio, video
}
