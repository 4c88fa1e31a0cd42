package orientation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	on := func(angle int, fs bool) Input {
		return Input{Angle: angle, AutoRotate: true, AutoFullscreen: true, Fullscreen: fs}
	}

	tests := []struct {
		name string
		in   Input
		want Decision
	}{
		{"portrait exits fullscreen", on(10, true), Decision{ForceFullscreenOff, EventPortrait}},
		{"portrait already windowed", on(0, false), Decision{NoOp, EventPortrait}},
		{"portrait upper edge", on(15, true), Decision{ForceFullscreenOff, EventPortrait}},
		{"just past portrait", on(16, true), Decision{}},
		{"dead zone", on(45, false), Decision{}},
		{"landscape left enters fullscreen", on(90, false), Decision{ForceFullscreenOn, EventLandscape}},
		{"landscape left edges", on(80, false), Decision{ForceFullscreenOn, EventLandscape}},
		{"landscape right", on(270, false), Decision{ForceFullscreenOn, EventLandscape}},
		{"landscape right upper edge", on(290, false), Decision{ForceFullscreenOn, EventLandscape}},
		{"landscape already fullscreen", on(100, true), Decision{NoOp, EventLandscape}},
		{"between landscape bands", on(180, true), Decision{}},
		{"past right band", on(291, false), Decision{}},
		{"unknown orientation", on(-1, true), Decision{}},
		{"auto-rotate off", Input{Angle: 90, AutoFullscreen: true}, Decision{}},
		{"auto-fullscreen off", Input{Angle: 90, AutoRotate: true}, Decision{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.in))
		})
	}
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "NoOp", NoOp.String())
	assert.Equal(t, "ForceFullscreenOn", ForceFullscreenOn.String())
	assert.Equal(t, "ForceFullscreenOff", ForceFullscreenOff.String())
	assert.Equal(t, "Unknown", Action(7).String())
}

func TestManualSensor(t *testing.T) {
	s := NewManualSensor(true)
	assert.False(t, s.Sample(10), "disabled sensor delivers nothing")

	var got []int
	s.Enable(func(a int) { got = append(got, a) })
	assert.True(t, s.Enabled())
	assert.True(t, s.Sample(90))

	s.Disable()
	assert.False(t, s.Sample(0))
	assert.Equal(t, []int{90}, got)
	assert.Equal(t, 1, s.Enables())

	s.SetAutoRotate(false)
	assert.False(t, s.AutoRotate())
}
