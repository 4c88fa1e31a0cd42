package engine

// State is the engine's buffering state. Whether it is actually rolling is
// the separate PlayWhenReady flag.
//
//	┌──────┐ prepare ┌───────────┐       ┌───────┐ end of media ┌───────┐
//	│ Idle │ ───────▶│ Buffering │ ─────▶│ Ready │ ────────────▶│ Ended │
//	└──────┘         └───────────┘ ◀──── └───────┘              └───────┘
//	                                rebuffer    ▲     seek/play      │
//	                                            └────────────────────┘
//
// Ready with PlayWhenReady is "playing"; Ready without it is "paused".
type State int

const (
	Idle State = iota
	Buffering
	Ready
	Ended
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Buffering:
		return "Buffering"
	case Ready:
		return "Ready"
	case Ended:
		return "Ended"
	default:
		return "Unknown"
	}
}
