package playloop

import "time"

const cacheRecheckInterval = 200 * time.Millisecond
const cachePollInterval = 250 * time.Millisecond

// UpdateCachePause is the cache-pause controller of spec.md §4.7. Runs
// each iteration when a demuxer exists.
func (c *Context) UpdateCachePause(now time.Time) {
	if c.Source == nil {
		return
	}

	cacheInfo := c.Source.CacheInfo()
	readerState := c.Source.ReaderState()

	useLowCachePause := cacheInfo.Size > 0 || c.Source.IsNetwork()

	prevBuffer := c.CacheBuffer
	busy := false

	if c.RestartComplete && useLowCachePause {
		if c.PausedForCache {
			shouldUnpause := !readerState.Underrun &&
				(!c.Options.CachePause || readerState.Idle || readerState.TsDuration >= c.Options.CachePauseWait)
			if shouldUnpause {
				c.setPausedForCache(false, now)
			} else {
				c.SetTimeout(cacheRecheckInterval)
				busy = true
			}
		} else {
			if c.Options.CachePause && readerState.Underrun {
				c.setPausedForCache(true, now)
				c.CacheStopTime = now
			}
		}
	}

	if c.PausedForCache {
		ratio := 0.0
		if c.Options.CachePauseWait > 0 {
			ratio = float64(readerState.TsDuration) / float64(c.Options.CachePauseWait)
		}
		ratio = clamp01(ratio)
		if ratio > 0.99 {
			ratio = 0.99
		}
		c.CacheBuffer = 100 * ratio
	} else {
		c.CacheBuffer = 100
	}

	crossedThreshold := prevBuffer < 100 && c.CacheBuffer >= 100
	reschedule := busy || !cacheInfo.Idle || now.After(c.NextCacheUpdate)
	if reschedule {
		c.NextCacheUpdate = now.Add(cachePollInterval)
	}
	if c.CacheBuffer != prevBuffer || crossedThreshold || reschedule {
		c.emit(Event{Kind: EventCacheUpdate, CacheBuffer: c.CacheBuffer})
	}

	if readerState.Eof && !busy && c.Playlist != nil {
		c.Playlist.PrefetchNext()
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
