package session

import "github.com/llehouerou/sessionctl/internal/playerror"

// Surface is the display the session renders into.
type Surface interface {
	// Ref identifies the surface in Load events.
	Ref() any
	// ShowError replaces the picture with an error screen.
	ShowError(err *playerror.Error, audioOnly bool)
	// ClearError removes a previously shown error screen.
	ClearError()
}

type nopSurface struct{}

func (nopSurface) Ref() any { return nil }

func (nopSurface) ShowError(*playerror.Error, bool) {}

func (nopSurface) ClearError() {}
