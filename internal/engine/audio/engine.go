// Package audio is an engine for audio-only media backed by beep. It plays
// local MP3, FLAC and WAV files through an Output, the system speaker by
// default. It has no picture: fullscreen requests are ignored and the
// overlay calls only record visibility.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/rs/zerolog"

	"github.com/llehouerou/sessionctl/internal/engine"
)

// Engine plays one decoded stream.
type Engine struct {
	out    Output
	logger zerolog.Logger
	notes  engine.Notifier

	mu            sync.Mutex
	stream        beep.StreamSeekCloser
	format        beep.Format
	ctrl          *beep.Ctrl
	state         engine.State
	playWhenReady bool
	queued        bool // ctrl is queued on the output
	round         uint64
	visible       bool
	controls      bool
	released      bool
}

func newEngine(out Output, stream beep.StreamSeekCloser, format beep.Format, rate beep.SampleRate, opts engine.CreateOptions, logger zerolog.Logger) *Engine {
	var src beep.Streamer = stream
	if format.SampleRate != rate {
		src = beep.Resample(4, format.SampleRate, rate, stream)
	}
	e := &Engine{
		out:           out,
		logger:        logger,
		stream:        stream,
		format:        format,
		ctrl:          &beep.Ctrl{Streamer: src, Paused: !opts.Autoplay},
		state:         engine.Buffering,
		playWhenReady: opts.Autoplay,
		controls:      opts.ControlsEnabled,
	}
	e.mu.Lock()
	e.enqueueLocked()
	e.state = engine.Ready
	e.emitLocked(engine.Notification{Kind: engine.KindStateChanged, State: engine.Ready, PlayWhenReady: e.playWhenReady})
	e.mu.Unlock()
	e.flush()
	return e
}

// enqueueLocked hands ctrl to the output followed by the end callback. Each
// queueing is a new round so a callback from a cleared round is ignored.
func (e *Engine) enqueueLocked() {
	e.round++
	round := e.round
	e.queued = true
	e.out.Play(beep.Seq(e.ctrl, beep.Callback(func() {
		// Runs on the mixing goroutine with the output locked.
		go e.ended(round)
	})))
}

func (e *Engine) ended(round uint64) {
	e.mu.Lock()
	if e.released || round != e.round {
		e.mu.Unlock()
		return
	}
	e.queued = false
	e.state = engine.Ended
	e.emitLocked(engine.Notification{Kind: engine.KindStateChanged, State: engine.Ended, PlayWhenReady: e.playWhenReady})
	e.mu.Unlock()
	e.flush()
}

func (e *Engine) emitLocked(n engine.Notification) {
	e.notes.Emit(n)
}

func (e *Engine) flush() {
	e.notes.Flush()
}

func (e *Engine) setPaused(paused bool) {
	e.out.Lock()
	e.ctrl.Paused = paused
	e.out.Unlock()
}

func (e *Engine) Play() {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return
	}
	e.playWhenReady = true
	if e.state == engine.Ended {
		// The user asked to play finished media; the owner decides whether
		// to rewind.
		e.emitLocked(engine.Notification{Kind: engine.KindPlayRequested})
	} else {
		e.state = engine.Ready
		e.setPaused(false)
		e.emitLocked(engine.Notification{Kind: engine.KindStateChanged, State: engine.Ready, PlayWhenReady: true})
	}
	e.mu.Unlock()
	e.flush()
}

func (e *Engine) Pause() {
	e.mu.Lock()
	if e.released || !e.playWhenReady {
		e.mu.Unlock()
		return
	}
	e.playWhenReady = false
	e.setPaused(true)
	if e.state == engine.Ready {
		e.emitLocked(engine.Notification{Kind: engine.KindStateChanged, State: engine.Ready})
	}
	e.mu.Unlock()
	e.flush()
}

// Stop halts output, rewinds and goes idle. A later Play starts from the
// beginning.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return
	}
	e.playWhenReady = false
	e.out.Lock()
	e.ctrl.Paused = true
	_ = e.stream.Seek(0)
	e.out.Unlock()
	if !e.queued {
		e.enqueueLocked()
	}
	e.state = engine.Idle
	e.emitLocked(engine.Notification{Kind: engine.KindStateChanged, State: engine.Idle})
	e.mu.Unlock()
	e.flush()
}

// Seek moves to pos, clamped to the stream. Seeking ended media makes it
// ready again.
func (e *Engine) Seek(pos time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return
	}
	n := min(max(e.format.SampleRate.N(pos), 0), e.stream.Len())
	e.out.Lock()
	if err := e.stream.Seek(n); err != nil {
		e.logger.Warn().Err(err).Dur("position", pos).Msg("seek failed")
	}
	e.ctrl.Paused = !e.playWhenReady
	e.out.Unlock()

	if e.state == engine.Ended {
		e.state = engine.Ready
		if !e.queued {
			e.enqueueLocked()
		}
	}
}

// Release stops output and closes the stream. Further calls are no-ops.
func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return
	}
	e.released = true
	e.out.Clear()
	e.round++
	if err := e.stream.Close(); err != nil {
		e.logger.Debug().Err(err).Msg("close stream")
	}
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
	if e.released {
		return 0
	}
	e.out.Lock()
	p := e.stream.Position()
	e.out.Unlock()
	return e.format.SampleRate.D(p)
}

func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return 0
	}
	return e.format.SampleRate.D(e.stream.Len())
}

// SetFullscreen is ignored; audio has no picture.
func (e *Engine) SetFullscreen(bool) {}

func (e *Engine) IsFullscreen() bool { return false }

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

// Visible reports whether the overlay was last shown.
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

func (e *Engine) On(kind engine.Kind, h engine.Handler) { e.notes.On(kind, h) }

func (e *Engine) Register(hs map[engine.Kind]engine.Handler) { e.notes.Register(hs) }

func (e *Engine) Off(kind engine.Kind) { e.notes.Off(kind) }

var _ engine.Engine = (*Engine)(nil)
