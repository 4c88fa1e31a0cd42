// Package events defines session events and the bus that fans them out.
package events

import (
	"fmt"

	"github.com/llehouerou/sessionctl/internal/playerror"
)

// Kind is the closed set of session event kinds.
type Kind int

const (
	Load Kind = iota
	Unload
	Start
	Play
	Pause
	Stop
	Finish
	Progress
	Resize
	Error
	Fullscreen
	FullscreenExit
	Portrait
	Landscape
)

var kindNames = [...]string{
	Load:           "Load",
	Unload:         "Unload",
	Start:          "Start",
	Play:           "Play",
	Pause:          "Pause",
	Stop:           "Stop",
	Finish:         "Finish",
	Progress:       "Progress",
	Resize:         "Resize",
	Error:          "Error",
	Fullscreen:     "Fullscreen",
	FullscreenExit: "FullscreenExit",
	Portrait:       "Portrait",
	Landscape:      "Landscape",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Event is one session event. Only the payload fields of its Kind are set.
//
// Events are values; Err points to an error that is never modified after
// emission, so every subscriber owns its copy.
type Event struct {
	Kind Kind

	// Load
	Surface any

	// Progress, in seconds
	CurrentTime float64
	Duration    float64

	// Resize
	Width       int
	Height      int
	RotationDeg int
	PixelAspect float64

	// Error
	Err *playerror.Error
}

// String renders the event for logs and the demo console.
func (e Event) String() string {
	switch e.Kind {
	case Progress:
		return fmt.Sprintf("Progress(%.2f/%.2f)", e.CurrentTime, e.Duration)
	case Resize:
		return fmt.Sprintf("Resize(%dx%d rot=%d par=%.2f)", e.Width, e.Height, e.RotationDeg, e.PixelAspect)
	case Error:
		if e.Err != nil {
			return fmt.Sprintf("Error(%s: %s)", e.Err.Kind, e.Err.Error())
		}
		return "Error"
	default:
		return e.Kind.String()
	}
}

// ProgressEvent builds a Progress event.
func ProgressEvent(current, duration float64) Event {
	return Event{Kind: Progress, CurrentTime: current, Duration: duration}
}

// ErrorEvent builds an Error event.
func ErrorEvent(err *playerror.Error) Event {
	return Event{Kind: Error, Err: err}
}
