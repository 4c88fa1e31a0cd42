package console

import (
	"sync"

	"github.com/llehouerou/sessionctl/internal/playerror"
)

// Surface is the console's error surface. The session calls it from its own
// goroutines; the view reads it on render.
type Surface struct {
	mu        sync.Mutex
	err       *playerror.Error
	audioOnly bool
}

// NewSurface returns an empty surface.
func NewSurface() *Surface {
	return &Surface{}
}

// Ref identifies the surface in Load events.
func (s *Surface) Ref() any { return "console" }

func (s *Surface) ShowError(err *playerror.Error, audioOnly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.audioOnly = audioOnly
}

func (s *Surface) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

// Current returns the error on display, if any.
func (s *Surface) Current() (*playerror.Error, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err, s.audioOnly
}
