// Package orientation decides automatic fullscreen changes from device
// orientation samples.
package orientation

// Action is what the session should ask the engine to do.
type Action int

const (
	NoOp Action = iota
	ForceFullscreenOn
	ForceFullscreenOff
)

func (a Action) String() string {
	switch a {
	case ForceFullscreenOn:
		return "ForceFullscreenOn"
	case ForceFullscreenOff:
		return "ForceFullscreenOff"
	case NoOp:
		return "NoOp"
	default:
		return "Unknown"
	}
}

// Event is the informational orientation reported to listeners.
type Event int

const (
	EventNone Event = iota
	EventPortrait
	EventLandscape
)

// Input is one orientation sample plus the switches that gate the policy.
type Input struct {
	Angle          int  // degrees, 0..359 as reported by the sensor
	AutoRotate     bool // OS-level auto-rotate setting
	AutoFullscreen bool // session auto-fullscreen mode
	Fullscreen     bool // engine currently fullscreen
}

// Decision is the outcome for one sample.
type Decision struct {
	Action Action
	Event  Event
}

// Decide maps a sample to a fullscreen action and an orientation event.
//
// Portrait band [0,15] turns fullscreen off; landscape bands [80,100] and
// [260,290] turn it on. Angles between bands are ignored, so the last forced
// state stays in place while the device sits in a dead zone.
func Decide(in Input) Decision {
	if !in.AutoRotate || !in.AutoFullscreen {
		return Decision{}
	}
	switch {
	case in.Angle >= 0 && in.Angle <= 15:
		d := Decision{Event: EventPortrait}
		if in.Fullscreen {
			d.Action = ForceFullscreenOff
		}
		return d
	case (in.Angle >= 80 && in.Angle <= 100) || (in.Angle >= 260 && in.Angle <= 290):
		d := Decision{Event: EventLandscape}
		if !in.Fullscreen {
			d.Action = ForceFullscreenOn
		}
		return d
	default:
		return Decision{}
	}
}

// Sensor is the device orientation source.
type Sensor interface {
	// Enable starts delivering samples to fn, possibly on another goroutine.
	Enable(fn func(angle int))
	// Disable stops delivery. No sample is delivered after it returns.
	Disable()
	// AutoRotate reports the OS-level auto-rotate setting.
	AutoRotate() bool
}
