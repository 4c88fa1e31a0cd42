// Package session implements the playback session controller: it owns at
// most one engine at a time, turns engine callbacks into session events and
// applies output, caption, fullscreen and teardown rules.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llehouerou/sessionctl/internal/engine"
	"github.com/llehouerou/sessionctl/internal/events"
	"github.com/llehouerou/sessionctl/internal/log"
	"github.com/llehouerou/sessionctl/internal/media"
	"github.com/llehouerou/sessionctl/internal/orientation"
	"github.com/llehouerou/sessionctl/internal/playerror"
	"github.com/llehouerou/sessionctl/internal/progress"
	"github.com/llehouerou/sessionctl/internal/trust"
)

var (
	// ErrClosed is returned by calls made after Close.
	ErrClosed = errors.New("session closed")
	// ErrDisabled is returned by Play while the trust gate holds the session.
	ErrDisabled = errors.New("session disabled")
	// ErrNoFactory is returned by New without an engine factory.
	ErrNoFactory = errors.New("session: engine factory is required")
)

// Options configure a Controller.
type Options struct {
	Factory          engine.Factory     // required
	Trust            trust.Checker      // defaults to a device that is never compromised
	Sensor           orientation.Sensor // optional
	Surface          Surface            // optional
	ProgressInterval time.Duration      // defaults to progress.DefaultInterval
	AutoFullscreen   bool
	EnableControls   bool
	Logger           *zerolog.Logger
}

// Controller is one playback session.
//
// All public methods and all engine, sensor and timer notifications are
// serialized through mu. Notifications are queued on an inbox and applied
// by a single loop goroutine. Events are delivered after mu is released, so
// listeners may call back into the controller (except Close).
type Controller struct {
	factory engine.Factory
	trust   trust.Checker
	sensor  orientation.Sensor
	surface Surface
	bus     *events.Bus
	base    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	inbox  *inbox
	stop   chan struct{}
	done   chan struct{}

	mu             sync.Mutex
	logger         zerolog.Logger
	progress       *progress.Scheduler
	media          media.Descriptor
	sessionID      string
	eng            engine.Engine
	gen            uint64
	state          State
	hasStarted     bool
	hasFinished    bool
	disabled       bool
	autoFullscreen bool
	enableControls bool
	sensorOn       bool
	errorShown     bool
	errOverride    string
	closed         bool
}

// New creates a controller and starts its notification loop.
// Call Close to dispose of it.
func New(opts Options) (*Controller, error) {
	if opts.Factory == nil {
		return nil, ErrNoFactory
	}
	logger := log.WithComponent("session")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if opts.Trust == nil {
		opts.Trust = trust.Static(false)
	}
	if opts.Surface == nil {
		opts.Surface = nopSurface{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		factory:        opts.Factory,
		trust:          opts.Trust,
		sensor:         opts.Sensor,
		surface:        opts.Surface,
		bus:            events.NewBus(logger),
		base:           logger,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		inbox:          newInbox(),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
		media:          media.Descriptor{OutputIndex: -1, CaptionIndex: -1},
		autoFullscreen: opts.AutoFullscreen,
		enableControls: opts.EnableControls,
	}
	c.progress = progress.New(opts.ProgressInterval, func(run uint64) {
		c.inbox.push(message{kind: msgTick, run: run})
	})

	go c.loop()
	return c, nil
}

// Listen registers a synchronous event listener.
func (c *Controller) Listen(fn events.Listener) (cancel func()) {
	return c.bus.Listen(fn)
}

// Subscribe returns a buffered channel subscription.
func (c *Controller) Subscribe() *events.Subscription {
	return c.bus.Subscribe()
}

// Unsubscribe removes a subscription.
func (c *Controller) Unsubscribe(sub *events.Subscription) {
	c.bus.Unsubscribe(sub)
}

// locked runs fn under mu, then delivers the events it queued.
func (c *Controller) locked(fn func() error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	err := fn()
	c.mu.Unlock()
	c.bus.Drain()
	return err
}

func (c *Controller) emit(ev events.Event) {
	c.bus.Enqueue(ev)
}

// SetMedia replaces the descriptor and tears down any current engine.
//
// An invalid descriptor is rejected with InvalidMedia and leaves the session
// untouched. With BlockIfRooted on a compromised device the session becomes
// Disabled and a single RootedDevice error is published.
func (c *Controller) SetMedia(d media.Descriptor) error {
	if err := d.Validate(); err != nil {
		c.logger.Warn().Err(err).Msg("rejected media")
		return playerror.Wrap(playerror.InvalidMedia, err)
	}
	return c.locked(func() error {
		c.destroyLocked(nil, true)
		c.media = d.Clone()
		c.sessionID = uuid.NewString()
		c.logger = c.base.With().
			Str("session_id", c.sessionID).
			Str("media_id", d.ID).
			Logger()

		if d.BlockIfRooted && c.trust.IsDeviceCompromised() {
			return c.failLocked(playerror.New(playerror.RootedDevice))
		}

		c.disabled = false
		c.state = Idle
		if c.errorShown {
			c.errorShown = false
			c.bus.Defer(c.surface.ClearError)
		}
		c.logger.Debug().Str("url", d.PlaybackURL()).Str("type", d.Type.String()).Msg("media set")
		return nil
	})
}

// Media returns a copy of the current descriptor.
func (c *Controller) Media() media.Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.media.Clone()
}

// SessionID identifies the current media assignment.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Play creates the engine on first use and resumes it afterwards.
func (c *Controller) Play() error {
	return c.locked(func() error {
		if c.eng != nil {
			c.eng.Play()
			return nil
		}
		if c.disabled {
			return ErrDisabled
		}
		return c.createLocked(true)
	})
}

// Pause pauses playback once it has started.
func (c *Controller) Pause() error {
	return c.locked(func() error {
		if c.hasStarted && c.eng != nil {
			c.eng.Pause()
		}
		return nil
	})
}

// Stop stops the engine without releasing it and publishes Stop.
func (c *Controller) Stop() error {
	return c.locked(func() error {
		if c.eng == nil {
			return nil
		}
		c.progress.Stop()
		c.eng.Stop()
		c.state = Stopped
		c.emit(events.Event{Kind: events.Stop})
		return nil
	})
}

// Seek moves to sec seconds, rounded to the millisecond.
func (c *Controller) Seek(sec float64) error {
	return c.locked(func() error {
		if c.eng != nil {
			c.eng.Seek(time.Duration(math.Round(sec*1000)) * time.Millisecond)
		}
		return nil
	})
}

// SetFullscreen asks the engine to change fullscreen. Fullscreen events are
// published only when the engine reports the change.
func (c *Controller) SetFullscreen(on bool) error {
	return c.locked(func() error {
		if c.eng != nil {
			c.eng.SetFullscreen(on)
		}
		return nil
	})
}

// IsFullscreen reports the engine's fullscreen state.
func (c *Controller) IsFullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eng != nil && c.eng.IsFullscreen()
}

// SetAutoFullscreenMode enables orientation-driven fullscreen.
func (c *Controller) SetAutoFullscreenMode(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoFullscreen = on
}

// SetEnableControls shows or hides the on-screen controls. Ignored for
// audio-only media, whose controls are always on.
func (c *Controller) SetEnableControls(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.media.IsAudioOnly {
		return
	}
	c.enableControls = on
	if c.eng != nil {
		c.eng.SetControlsEnabled(on)
	}
}

// Show reveals the engine's controls overlay.
func (c *Controller) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eng != nil {
		c.eng.Show()
	}
}

// Hide hides the engine's controls overlay.
func (c *Controller) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eng != nil {
		c.eng.Hide()
	}
}

// CurrentTime returns the playback position in seconds, 0 without an engine.
func (c *Controller) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eng == nil {
		return 0
	}
	return c.eng.Position().Seconds()
}

// Duration returns the media duration in seconds, 0 without an engine.
func (c *Controller) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eng == nil {
		return 0
	}
	return c.eng.Duration().Seconds()
}

// HasStarted reports whether the current engine has played at least once.
func (c *Controller) HasStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasStarted
}

// HasFinished reports whether the current engine reached the end.
func (c *Controller) HasFinished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasFinished
}

// Destroy releases the engine and publishes Unload. It is a no-op without an
// engine.
func (c *Controller) Destroy() error {
	return c.locked(func() error {
		c.destroyLocked(nil, true)
		return nil
	})
}

// DestroyWithError releases the engine and shows err on the surface.
func (c *Controller) DestroyWithError(err error) error {
	return c.locked(func() error {
		c.destroyLocked(playerror.Classify(err, c.media.IsAudioOnly), true)
		return nil
	})
}

// OverrideErrorMessage replaces the message the surface will show for the
// error being published. Call it from an Error listener.
func (c *Controller) OverrideErrorMessage(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errOverride = msg
}

// ChangeOutput switches to the output with the same label. The engine is
// recreated on the new URL and seeked to the position it had at the switch.
func (c *Controller) ChangeOutput(o media.Output) error {
	return c.locked(func() error {
		next, err := c.media.WithOutput(o.Label)
		if err != nil {
			return fmt.Errorf("change output: %w", err)
		}
		var pos time.Duration
		if c.eng != nil {
			pos = c.eng.Position()
		}
		c.media = next

		if next.PlaybackURL() == "" {
			return c.failLocked(playerror.New(playerror.EmptyURL))
		}
		if c.eng == nil {
			return nil
		}

		c.logger.Info().Str("output", o.Label).Dur("position", pos).Msg("switching output")
		started, finished := c.hasStarted, c.hasFinished
		c.destroyLocked(nil, false)
		if err := c.createLocked(false); err != nil {
			// The old engine left silently; close the Load it announced.
			c.emit(events.Event{Kind: events.Unload})
			return err
		}
		c.hasStarted, c.hasFinished = started, finished
		c.eng.Seek(pos)
		return nil
	})
}

// ChangeCaption selects the caption with the same language. The engine is
// not touched; the renderer reads the current caption.
func (c *Controller) ChangeCaption(cp media.Caption) error {
	return c.locked(func() error {
		next, err := c.media.WithCaption(cp.Language)
		if err != nil {
			return fmt.Errorf("change caption: %w", err)
		}
		c.media = next
		return nil
	})
}

// Close destroys the engine, stops the notification loop and closes
// subscriptions. It must not be called from a listener.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.destroyLocked(nil, true)
	c.closed = true
	c.mu.Unlock()
	c.bus.Drain()

	c.cancel()
	close(c.stop)
	<-c.done
	c.inbox.close()
	c.bus.Close()
	return nil
}
