package playback

import (
	"github.com/rowanwave/waves/internal/playloop"
	"github.com/rowanwave/waves/internal/playlist"
)

// playlistAdapter adapts playlist.PlayingQueue to playloop.PlaylistSource.
type playlistAdapter struct {
	queue *playlist.PlayingQueue
}

func (a *playlistAdapter) HasCurrentEntry() bool { return a.queue.Current() != nil }
func (a *playlistAdapter) HasNextEntry() bool     { return a.queue.HasNext() }

// PrefetchNext is a no-op: gapless preloading is already driven by the
// player's own monitor loop (internal/player/stream.go's
// shouldPreload/preloadNext), independent of the playloop core.
func (a *playlistAdapter) PrefetchNext() {}

var _ playloop.PlaylistSource = (*playlistAdapter)(nil)
