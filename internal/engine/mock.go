package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/llehouerou/sessionctl/internal/media"
)

// Mock is a test double for Engine. It is safe for concurrent use so tests
// can fire notifications from other goroutines.
type Mock struct {
	mu            sync.Mutex
	state         State
	playWhenReady bool
	position      time.Duration
	duration      time.Duration
	fullscreen    bool
	rejectFS      bool
	visible       bool
	controls      bool
	released      bool
	handlers      map[Kind]Handler
	calls         []string
	seekCalls     []time.Duration

	Descriptor media.Descriptor
	Options    CreateOptions
}

// NewMock creates a new idle mock engine.
func NewMock() *Mock {
	return &Mock{handlers: make(map[Kind]Handler)}
}

func (m *Mock) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *Mock) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("play")
	m.playWhenReady = true
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("pause")
	m.playWhenReady = false
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("stop")
	m.playWhenReady = false
	m.state = Idle
}

func (m *Mock) Seek(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("seek")
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
	if m.state == Ended {
		m.state = Ready
	}
}

func (m *Mock) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("release")
	m.released = true
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) PlayWhenReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playWhenReady
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// SetFullscreen toggles fullscreen and fires FullscreenChanged synchronously,
// unless the mock was told to reject requests.
func (m *Mock) SetFullscreen(on bool) {
	m.mu.Lock()
	m.record("fullscreen")
	if m.rejectFS || m.fullscreen == on {
		m.mu.Unlock()
		return
	}
	m.fullscreen = on
	h := m.handlers[KindFullscreenChanged]
	m.mu.Unlock()

	if h != nil {
		h(Notification{Kind: KindFullscreenChanged, Entering: on})
	}
}

func (m *Mock) IsFullscreen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fullscreen
}

func (m *Mock) Show() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("show")
	m.visible = true
}

func (m *Mock) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("hide")
	m.visible = false
}

func (m *Mock) SetControlsEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("controls")
	m.controls = on
}

func (m *Mock) On(kind Kind, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[kind] = h
}

func (m *Mock) Register(hs map[Kind]Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for kind, h := range hs {
		m.handlers[kind] = h
	}
}

func (m *Mock) Off(kind Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handlers, kind)
}

// Test helpers

// Fire delivers n to the registered handler for n.Kind. It returns false when
// nothing is registered. StateChanged notifications also update the mock state.
func (m *Mock) Fire(n Notification) bool {
	m.mu.Lock()
	if n.Kind == KindStateChanged {
		m.state = n.State
		m.playWhenReady = n.PlayWhenReady
	}
	h := m.handlers[n.Kind]
	m.mu.Unlock()
	if h == nil {
		return false
	}
	h(n)
	return true
}

// FireReady fires a Ready state change.
func (m *Mock) FireReady(playWhenReady bool) bool {
	return m.Fire(Notification{Kind: KindStateChanged, State: Ready, PlayWhenReady: playWhenReady})
}

// FireEnded fires an Ended state change.
func (m *Mock) FireEnded(playWhenReady bool) bool {
	return m.Fire(Notification{Kind: KindStateChanged, State: Ended, PlayWhenReady: playWhenReady})
}

// FireError fires an error notification.
func (m *Mock) FireError(err error) bool {
	return m.Fire(Notification{Kind: KindError, Err: err})
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// RejectFullscreen makes SetFullscreen a silent no-op.
func (m *Mock) RejectFullscreen(reject bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectFS = reject
}

func (m *Mock) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

func (m *Mock) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

func (m *Mock) ControlsEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controls
}

// Registered reports whether a handler is installed for kind.
func (m *Mock) Registered(kind Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.handlers[kind]
	return ok
}

// HandlerCount returns the number of installed handlers.
func (m *Mock) HandlerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers)
}

func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

// ErrMockCreate is returned by MockFactory when FailCreate is set.
var ErrMockCreate = errors.New("mock: create failed")

// MockFactory hands out Mock engines and keeps track of them.
type MockFactory struct {
	mu         sync.Mutex
	engines    []*Mock
	failCreate error

	// Prepare, when set, is applied to each new mock before it is returned.
	Prepare func(*Mock)
}

// NewMockFactory creates a factory for mock engines.
func NewMockFactory() *MockFactory {
	return &MockFactory{}
}

func (f *MockFactory) Create(_ context.Context, d media.Descriptor, opts CreateOptions) (Engine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	m := NewMock()
	m.Descriptor = d
	m.Options = opts
	if f.Prepare != nil {
		f.Prepare(m)
	}
	f.engines = append(f.engines, m)
	return m, nil
}

// FailCreate makes subsequent Create calls fail with err (nil to reset).
func (f *MockFactory) FailCreate(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCreate = err
}

// Created returns the number of engines created so far.
func (f *MockFactory) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.engines)
}

// Last returns the most recently created engine, or nil.
func (f *MockFactory) Last() *Mock {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.engines) == 0 {
		return nil
	}
	return f.engines[len(f.engines)-1]
}

// Live returns the number of created engines not yet released.
func (f *MockFactory) Live() int {
	f.mu.Lock()
	engines := append([]*Mock(nil), f.engines...)
	f.mu.Unlock()
	n := 0
	for _, m := range engines {
		if !m.Released() {
			n++
		}
	}
	return n
}

// Verify Mock implements Engine at compile time.
var _ Engine = (*Mock)(nil)

// Verify MockFactory implements Factory at compile time.
var _ Factory = (*MockFactory)(nil)
