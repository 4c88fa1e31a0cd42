package engine

import (
	"testing"

	"github.com/llehouerou/sessionctl/internal/media"
)

func testDescriptor() media.Descriptor {
	return media.New("t", "Test", "http://x/a.m3u8", media.TypeHLS)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Idle, "Idle"},
		{Buffering, "Buffering"},
		{Ready, "Ready"},
		{Ended, "Ended"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestKind_String(t *testing.T) {
	if got := KindFullscreenChanged.String(); got != "fullscreen-changed" {
		t.Errorf("String() = %q", got)
	}
	if got := Kind(42).String(); got != "kind(42)" {
		t.Errorf("String() = %q", got)
	}
}

func TestMock_FireWithoutHandler(t *testing.T) {
	m := NewMock()
	if m.FireReady(true) {
		t.Error("FireReady() = true with no handler registered")
	}
	if m.State() != Ready || !m.PlayWhenReady() {
		t.Errorf("state = %v/%v, want Ready/true", m.State(), m.PlayWhenReady())
	}
}

func TestMock_OnOff(t *testing.T) {
	m := NewMock()
	var got []Notification
	m.On(KindError, func(n Notification) { got = append(got, n) })

	if !m.FireError(ErrMockCreate) {
		t.Fatal("FireError() = false, want true")
	}
	m.Off(KindError)
	if m.FireError(ErrMockCreate) {
		t.Error("FireError() after Off = true")
	}
	if len(got) != 1 {
		t.Errorf("handler called %d times, want 1", len(got))
	}
}

func TestMock_FullscreenFiresOnChange(t *testing.T) {
	m := NewMock()
	var entering []bool
	m.On(KindFullscreenChanged, func(n Notification) { entering = append(entering, n.Entering) })

	m.SetFullscreen(true)
	m.SetFullscreen(true)
	m.SetFullscreen(false)

	if len(entering) != 2 || !entering[0] || entering[1] {
		t.Errorf("entering = %v, want [true false]", entering)
	}

	m.RejectFullscreen(true)
	m.SetFullscreen(true)
	if m.IsFullscreen() {
		t.Error("IsFullscreen() = true after rejected request")
	}
}

func TestMockFactory_Live(t *testing.T) {
	f := NewMockFactory()
	a, _ := f.Create(t.Context(), testDescriptor(), CreateOptions{})
	_, _ = f.Create(t.Context(), testDescriptor(), CreateOptions{})

	if f.Live() != 2 {
		t.Errorf("Live() = %d, want 2", f.Live())
	}
	a.Release()
	if f.Live() != 1 {
		t.Errorf("Live() = %d, want 1", f.Live())
	}

	f.FailCreate(ErrMockCreate)
	if _, err := f.Create(t.Context(), testDescriptor(), CreateOptions{}); err == nil {
		t.Error("Create() error = nil, want ErrMockCreate")
	}
	if f.Created() != 2 {
		t.Errorf("Created() = %d, want 2", f.Created())
	}
}
