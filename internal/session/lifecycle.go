package session

import (
	"github.com/llehouerou/sessionctl/internal/engine"
	"github.com/llehouerou/sessionctl/internal/events"
	"github.com/llehouerou/sessionctl/internal/metrics"
	"github.com/llehouerou/sessionctl/internal/playerror"
)

// createLocked destroys any engine and creates a new one for the current
// media. notify controls the Load event; output switches recreate silently.
func (c *Controller) createLocked(notify bool) error {
	if c.eng != nil {
		c.destroyLocked(nil, false)
	}

	url := c.media.PlaybackURL()
	if url == "" {
		return c.failLocked(playerror.New(playerror.EmptyURL))
	}

	c.state = Creating
	opts := engine.CreateOptions{
		Autoplay:        !c.media.HasAd(),
		HideSeekbar:     c.media.IsLive,
		OutputMenu:      len(c.media.Outputs) > 1 && !c.media.IsAudioOnly,
		CaptionMenu:     len(c.media.Captions) > 0,
		ControlsEnabled: c.enableControls || c.media.IsAudioOnly,
		ThemeColor:      c.media.ThemeColor,
		Surface:         c.surface.Ref(),
	}
	eng, err := c.factory.Create(c.ctx, c.media.Clone(), opts)
	if err != nil {
		metrics.EngineCreateFailed()
		return c.failLocked(playerror.Classify(err, c.media.IsAudioOnly))
	}
	metrics.EngineCreated()

	c.gen++
	c.eng = eng
	c.register(eng, c.gen)
	if c.sensor != nil && !c.media.IsAudioOnly {
		gen := c.gen
		c.sensor.Enable(func(angle int) {
			c.inbox.push(message{kind: msgOrientation, gen: gen, angle: angle})
		})
		c.sensorOn = true
	}

	c.logger.Info().
		Str("url", url).
		Uint64("generation", c.gen).
		Bool("notify", notify).
		Msg("engine created")
	if notify {
		c.emit(events.Event{Kind: events.Load, Surface: opts.Surface})
	}
	return nil
}

// destroyLocked releases the engine and everything registered on it.
// notify publishes Unload and updates the error surface; internal
// recreation passes false. Without an engine only the error surface is
// updated, and only when err is set.
func (c *Controller) destroyLocked(err *playerror.Error, notify bool) {
	if c.eng != nil {
		c.progress.Stop()
		eng := c.eng
		eng.Pause()
		c.unregister(eng)
		if c.sensorOn {
			c.sensor.Disable()
			c.sensorOn = false
		}
		eng.Release()
		metrics.EngineReleased()

		c.eng = nil
		c.hasStarted = false
		c.hasFinished = false
		c.disabled = false
		c.state = Idle
		c.logger.Info().Uint64("generation", c.gen).Bool("notify", notify).Msg("engine released")

		if notify {
			c.emit(events.Event{Kind: events.Unload})
			if err == nil && c.errorShown {
				c.errorShown = false
				c.bus.Defer(c.surface.ClearError)
			}
		}
	}
	if notify && err != nil {
		c.showErrorLocked(err)
	}
}

// failLocked publishes err, tears the session down and shows err on the
// surface. A disabled session stays disabled. The returned error is err.
func (c *Controller) failLocked(err *playerror.Error) error {
	metrics.IncSessionError(err.Kind.String())
	c.logger.Warn().Str("kind", err.Kind.String()).Err(err).Msg("playback error")

	disabled := c.disabled
	c.emit(events.ErrorEvent(err))
	c.destroyLocked(err, true)
	if err.Kind.Gates() || disabled {
		c.disabled = true
		c.state = Disabled
	} else {
		c.state = Failed
	}
	return err
}

// showErrorLocked queues the error screen behind the events already queued,
// so Error listeners can still override the message.
func (c *Controller) showErrorLocked(err *playerror.Error) {
	c.errorShown = true
	c.errOverride = ""
	audioOnly := c.media.IsAudioOnly
	c.bus.Defer(func() {
		c.mu.Lock()
		msg := c.errOverride
		c.errOverride = ""
		c.mu.Unlock()

		shown := err
		if msg != "" {
			shown = err.WithMessage(msg)
		}
		c.surface.ShowError(shown, audioOnly)
	})
}
