package engine

import "fmt"

// Kind identifies a notification channel of the engine.
type Kind int

const (
	KindStateChanged Kind = iota
	KindError
	KindSizeChanged
	KindFullscreenChanged
	KindPlayRequested
)

// Kinds lists every notification kind in registration order.
var Kinds = []Kind{
	KindStateChanged,
	KindError,
	KindSizeChanged,
	KindFullscreenChanged,
	KindPlayRequested,
}

func (k Kind) String() string {
	switch k {
	case KindStateChanged:
		return "state-changed"
	case KindError:
		return "error"
	case KindSizeChanged:
		return "size-changed"
	case KindFullscreenChanged:
		return "fullscreen-changed"
	case KindPlayRequested:
		return "play-requested"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Size is the decoded video geometry.
type Size struct {
	Width       int
	Height      int
	RotationDeg int
	PixelAspect float64
}

// Notification is a raw engine callback. Only the fields relevant to Kind are set.
type Notification struct {
	Kind          Kind
	PlayWhenReady bool
	State         State
	Err           error
	Size          Size
	Entering      bool // fullscreen entered (true) or exited (false)
}

// Handler receives notifications.
type Handler func(Notification)
