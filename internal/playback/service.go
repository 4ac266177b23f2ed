package playback

import (
	"time"

	"github.com/rowanwave/waves/internal/player"
)

// Service defines the playback service contract.
type Service interface {
	// Playback control
	Play() error
	PlayPath(path string) error
	Pause() error
	Stop() error
	Toggle() error
	Next() error
	Previous() error
	Seek(delta time.Duration) error
	SeekTo(position time.Duration) error

	// Queue navigation
	JumpTo(index int) error

	// State queries
	State() State
	IsPlaying() bool
	IsPaused() bool
	IsStopped() bool
	Position() time.Duration
	Duration() time.Duration
	CurrentTrack() *Track
	TrackInfo() *player.TrackInfo
	Player() player.Interface

	// Queue contents
	QueueTracks() []Track
	QueueCurrentIndex() int
	QueueLen() int
	QueueIsEmpty() bool
	QueueHasNext() bool
	AddTracks(tracks ...Track)
	ReplaceTracks(tracks ...Track) *Track
	ClearQueue()
	Undo() bool
	Redo() bool
	QueueAdvance() *Track
	QueueMoveTo(index int) *Track

	// Mode control
	RepeatMode() RepeatMode
	SetRepeatMode(mode RepeatMode)
	CycleRepeatMode() RepeatMode
	Shuffle() bool
	SetShuffle(enabled bool)
	ToggleShuffle() bool

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
