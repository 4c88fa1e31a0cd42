package session

// State is the session lifecycle state.
//
// Valid transitions:
//   - Idle     → Creating (via Play with media set)
//   - Creating → Playing  (engine ready+playing)
//   - Creating → Failed   (empty URL or engine creation error)
//   - Playing  ↔ Paused   (engine ready+paused / ready+playing)
//   - Playing  → Ended    (engine ended while playing)
//   - Playing  → Stopped  (via Stop)
//   - any with an engine → Idle (via Destroy, SetMedia)
//   - any with an engine → Failed (engine error)
//   - any → Disabled (SetMedia with the trust gate tripped)
//
// Disabled is left only by the next SetMedia.
type State int

const (
	Idle State = iota
	Creating
	Playing
	Paused
	Stopped
	Ended
	Failed
	Disabled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Creating:
		return "Creating"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	case Ended:
		return "Ended"
	case Failed:
		return "Failed"
	case Disabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// HasEngine reports whether the state implies a live engine.
func (s State) HasEngine() bool {
	switch s {
	case Creating, Playing, Paused, Stopped, Ended:
		return true
	default:
		return false
	}
}
