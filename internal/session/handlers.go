package session

import (
	"github.com/llehouerou/sessionctl/internal/engine"
	"github.com/llehouerou/sessionctl/internal/events"
	"github.com/llehouerou/sessionctl/internal/orientation"
	"github.com/llehouerou/sessionctl/internal/playerror"
)

// handlers maps each engine notification kind to the method applying it.
var handlers = map[engine.Kind]func(*Controller, engine.Notification){
	engine.KindStateChanged:      (*Controller).onStateChanged,
	engine.KindError:             (*Controller).onError,
	engine.KindSizeChanged:       (*Controller).onSizeChanged,
	engine.KindFullscreenChanged: (*Controller).onFullscreenChanged,
	engine.KindPlayRequested:     (*Controller).onPlayRequested,
}

// register installs one forwarding handler per kind in a single call, so
// notifications the engine emitted during creation arrive in order.
// Audio-only media has no fullscreen.
func (c *Controller) register(eng engine.Engine, gen uint64) {
	forward := func(n engine.Notification) {
		c.inbox.push(message{kind: msgEngine, gen: gen, note: n})
	}
	hs := make(map[engine.Kind]engine.Handler, len(engine.Kinds))
	for _, kind := range engine.Kinds {
		if kind == engine.KindFullscreenChanged && c.media.IsAudioOnly {
			continue
		}
		hs[kind] = forward
	}
	eng.Register(hs)
}

func (c *Controller) unregister(eng engine.Engine) {
	for _, kind := range engine.Kinds {
		eng.Off(kind)
	}
}

func (c *Controller) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			return
		case <-c.inbox.wake:
		}
		for _, m := range c.inbox.takeAll() {
			c.dispatch(m)
		}
	}
}

func (c *Controller) dispatch(m message) {
	if m.kind == msgBarrier {
		close(m.done)
		return
	}

	c.mu.Lock()
	switch m.kind {
	case msgEngine:
		if c.eng != nil && m.gen == c.gen {
			handlers[m.note.Kind](c, m.note)
		} else {
			c.logger.Debug().Str("kind", m.note.Kind.String()).Uint64("generation", m.gen).Msg("dropped stale notification")
		}
	case msgTick:
		c.onTick(m.run)
	case msgOrientation:
		if c.eng != nil && m.gen == c.gen {
			c.onOrientation(m.angle)
		}
	}
	c.mu.Unlock()
	c.bus.Drain()
}

func (c *Controller) onStateChanged(n engine.Notification) {
	c.logger.Debug().Bool("play_when_ready", n.PlayWhenReady).Str("state", n.State.String()).Msg("engine state")

	switch n.State {
	case engine.Ready:
		if !n.PlayWhenReady {
			c.progress.Stop()
			c.state = Paused
			c.emit(events.Event{Kind: events.Pause})
			return
		}
		if !c.hasStarted {
			c.hasStarted = true
			c.emit(events.Event{Kind: events.Start})
			c.eng.Show()
		}
		c.state = Playing
		c.emit(events.Event{Kind: events.Play})
		c.progress.Start()

	case engine.Ended:
		// End callbacks not driven by playback are duplicates.
		if !n.PlayWhenReady {
			return
		}
		c.progress.Stop()
		c.eng.Pause()
		c.eng.Seek(0)
		c.emit(events.Event{Kind: events.Finish})
		c.hasFinished = true
		c.state = Ended

	case engine.Idle, engine.Buffering:
	}
}

func (c *Controller) onError(n engine.Notification) {
	_ = c.failLocked(playerror.Classify(n.Err, c.media.IsAudioOnly))
}

func (c *Controller) onSizeChanged(n engine.Notification) {
	c.emit(events.Event{
		Kind:        events.Resize,
		Width:       n.Size.Width,
		Height:      n.Size.Height,
		RotationDeg: n.Size.RotationDeg,
		PixelAspect: n.Size.PixelAspect,
	})
}

func (c *Controller) onFullscreenChanged(n engine.Notification) {
	if n.Entering {
		c.emit(events.Event{Kind: events.Fullscreen})
	} else {
		c.emit(events.Event{Kind: events.FullscreenExit})
	}
}

// onPlayRequested rewinds when the user presses play on finished media.
func (c *Controller) onPlayRequested(engine.Notification) {
	if c.eng.State() == engine.Ended {
		c.eng.Seek(0)
	}
}

func (c *Controller) onTick(run uint64) {
	if c.eng == nil || !c.progress.Current(run) {
		return
	}
	c.emit(events.ProgressEvent(c.eng.Position().Seconds(), c.eng.Duration().Seconds()))
}

func (c *Controller) onOrientation(angle int) {
	d := orientation.Decide(orientation.Input{
		Angle:          angle,
		AutoRotate:     c.sensor.AutoRotate(),
		AutoFullscreen: c.autoFullscreen,
		Fullscreen:     c.eng.IsFullscreen(),
	})
	switch d.Action {
	case orientation.ForceFullscreenOn:
		c.eng.SetFullscreen(true)
	case orientation.ForceFullscreenOff:
		c.eng.SetFullscreen(false)
	case orientation.NoOp:
	}
	switch d.Event {
	case orientation.EventPortrait:
		c.emit(events.Event{Kind: events.Portrait})
	case orientation.EventLandscape:
		c.emit(events.Event{Kind: events.Landscape})
	case orientation.EventNone:
	}
}
