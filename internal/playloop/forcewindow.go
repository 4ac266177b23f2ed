package playloop

const forcedWidth, forcedHeight = 960, 480

// UpdateForceWindow implements spec.md §4.10: creates or tears down the
// VO when there is no real video chain (idle, audio-only, a stalled
// video track with no frames). force indicates the caller explicitly
// requested a window (e.g. "force=true" from client API); the playloop
// body itself always calls this with force=false (spec.md §4.12 step
// 15).
func (c *Context) UpdateForceWindow(force bool) {
	if c.Video == nil {
		return
	}

	needsVO := c.Source == nil || !c.Source.HasVideo() || (c.Source.HasVideo() && !c.Source.HasFrame())

	var want bool
	switch c.Options.ForceVO {
	case ForceVONever:
		want = false
	case ForceVOIfLoaded:
		want = needsVO && (c.Source != nil || force)
	case ForceVOAlways:
		want = true
	}

	if want == c.forceVOActive {
		return
	}

	if want {
		if err := c.Video.Reconfig(forcedWidth, forcedHeight); err != nil {
			c.emitError("force-vo", err)
			c.Options.ForceVO = ForceVONever
			c.Video.Destroy()
			c.forceVOActive = false
			return
		}
		c.Video.SetPaused(true)
		c.Video.Redraw()
		c.forceVOActive = true
		c.emit(Event{Kind: EventVideoReconfig})
		return
	}

	c.Video.Destroy()
	c.forceVOActive = false
}
