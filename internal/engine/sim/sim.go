// Package sim is a simulated video engine. It keeps a wall-clock position,
// reports a picture size derived from the selected output and honors
// fullscreen requests, which is enough to drive a session without a real
// decoder.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/llehouerou/sessionctl/internal/engine"
	"github.com/llehouerou/sessionctl/internal/media"
	"github.com/llehouerou/sessionctl/internal/playerror"
)

// DefaultDuration is the length of simulated on-demand media.
const DefaultDuration = 2 * time.Minute

// Factory creates simulated engines.
type Factory struct {
	// Duration of on-demand media; DefaultDuration when zero.
	Duration time.Duration
}

// Create returns an engine that is immediately ready. Protected media
// without a license server fails entitlement right after it is ready.
func (f Factory) Create(ctx context.Context, d media.Descriptor, opts engine.CreateOptions) (engine.Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dur := f.Duration
	if dur <= 0 {
		dur = DefaultDuration
	}

	e := &Engine{
		duration:      dur,
		live:          d.IsLive,
		playWhenReady: opts.Autoplay,
		controls:      opts.ControlsEnabled,
		state:         engine.Ready,
	}
	e.mu.Lock()
	e.notes.Emit(engine.Notification{Kind: engine.KindSizeChanged, Size: sizeFor(d)})
	e.notes.Emit(engine.Notification{Kind: engine.KindStateChanged, State: engine.Ready, PlayWhenReady: opts.Autoplay})
	if opts.Autoplay {
		e.startLocked()
	}
	if d.DRM != nil && d.DRM.LicenseURL == "" {
		e.notes.Emit(engine.Notification{Kind: engine.KindError, Err: playerror.ErrDRMUnauthorized})
	}
	e.mu.Unlock()
	return e, nil
}

func sizeFor(d media.Descriptor) engine.Size {
	h := 720
	if o, ok := d.CurrentOutput(); ok && o.Height > 0 {
		h = o.Height
	}
	return engine.Size{Width: h * 16 / 9, Height: h, PixelAspect: 1}
}

// Engine is a simulated player.
type Engine struct {
	notes engine.Notifier

	mu            sync.Mutex
	state         engine.State
	playWhenReady bool
	live          bool
	duration      time.Duration
	base          time.Duration // position when the clock last started or stopped
	started       time.Time     // zero while the clock is stopped
	timer         *time.Timer
	round         uint64
	fullscreen    bool
	visible       bool
	controls      bool
	released      bool
}

func (e *Engine) positionLocked() time.Duration {
	pos := e.base
	if !e.started.IsZero() {
		pos += time.Since(e.started)
	}
	if !e.live {
		pos = min(pos, e.duration)
	}
	return pos
}

// startLocked runs the clock and, for on-demand media, arms the end timer.
func (e *Engine) startLocked() {
	if !e.started.IsZero() {
		return
	}
	e.started = time.Now()
	if e.live {
		return
	}
	e.round++
	round := e.round
	e.timer = time.AfterFunc(e.duration-e.base, func() { e.ended(round) })
}

func (e *Engine) stopClockLocked() {
	e.base = e.positionLocked()
	e.started = time.Time{}
	e.round++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) ended(round uint64) {
	e.mu.Lock()
	if e.released || round != e.round {
		e.mu.Unlock()
		return
	}
	e.stopClockLocked()
	e.base = e.duration
	e.state = engine.Ended
	e.notes.Emit(engine.Notification{Kind: engine.KindStateChanged, State: engine.Ended, PlayWhenReady: e.playWhenReady})
	e.mu.Unlock()
	e.notes.Flush()
}

func (e *Engine) Play() {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return
	}
	e.playWhenReady = true
	if e.state == engine.Ended {
		e.notes.Emit(engine.Notification{Kind: engine.KindPlayRequested})
	} else {
		e.state = engine.Ready
		e.startLocked()
		e.notes.Emit(engine.Notification{Kind: engine.KindStateChanged, State: engine.Ready, PlayWhenReady: true})
	}
	e.mu.Unlock()
	e.notes.Flush()
}

func (e *Engine) Pause() {
	e.mu.Lock()
	if e.released || !e.playWhenReady {
		e.mu.Unlock()
		return
	}
	e.playWhenReady = false
	e.stopClockLocked()
	if e.state == engine.Ready {
		e.notes.Emit(engine.Notification{Kind: engine.KindStateChanged, State: engine.Ready})
	}
	e.mu.Unlock()
	e.notes.Flush()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return
	}
	e.playWhenReady = false
	e.stopClockLocked()
	e.base = 0
	e.state = engine.Idle
	e.notes.Emit(engine.Notification{Kind: engine.KindStateChanged, State: engine.Idle})
	e.mu.Unlock()
	e.notes.Flush()
}

func (e *Engine) Seek(pos time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return
	}
	running := !e.started.IsZero()
	e.stopClockLocked()
	e.base = max(pos, 0)
	if !e.live {
		e.base = min(e.base, e.duration)
	}
	if e.state == engine.Ended {
		e.state = engine.Ready
	}
	if running || (e.playWhenReady && e.state == engine.Ready) {
		e.startLocked()
	}
}

func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return
	}
	e.released = true
	e.stopClockLocked()
	e.notes.Close()
	e.state = engine.Idle
}

func (e *Engine) State() engine.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) PlayWhenReady() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playWhenReady
}

func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

// Duration is zero for live media.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.live {
		return 0
	}
	return e.duration
}

func (e *Engine) SetFullscreen(on bool) {
	e.mu.Lock()
	if e.released || e.fullscreen == on {
		e.mu.Unlock()
		return
	}
	e.fullscreen = on
	e.notes.Emit(engine.Notification{Kind: engine.KindFullscreenChanged, Entering: on})
	e.mu.Unlock()
	e.notes.Flush()
}

func (e *Engine) IsFullscreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fullscreen
}

func (e *Engine) Show() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = true
}

func (e *Engine) Hide() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = false
}

// Visible reports whether the overlay is shown.
func (e *Engine) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

func (e *Engine) SetControlsEnabled(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.controls = on
}

// ControlsEnabled reports whether on-screen controls are enabled.
func (e *Engine) ControlsEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controls
}

func (e *Engine) On(kind engine.Kind, h engine.Handler) { e.notes.On(kind, h) }

func (e *Engine) Register(hs map[engine.Kind]engine.Handler) { e.notes.Register(hs) }

func (e *Engine) Off(kind engine.Kind) { e.notes.Off(kind) }

var (
	_ engine.Engine  = (*Engine)(nil)
	_ engine.Factory = Factory{}
)
