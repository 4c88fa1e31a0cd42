// Package engine defines the contract a playback session needs from the
// external rendering engine.
package engine

import (
	"context"
	"time"

	"github.com/llehouerou/sessionctl/internal/media"
)

// Engine is one live rendering resource bound to one media source.
//
// Notifications may be delivered on any goroutine, including synchronously
// from inside a method call. Handlers must not block.
type Engine interface {
	Play()
	Pause()
	Stop()
	Seek(pos time.Duration)
	Release()

	State() State
	PlayWhenReady() bool
	Position() time.Duration
	Duration() time.Duration

	SetFullscreen(on bool)
	IsFullscreen() bool

	Show()
	Hide()
	SetControlsEnabled(on bool)

	// On registers h for kind, replacing any previous handler.
	On(kind Kind, h Handler)
	// Register installs every handler in hs at once. Notifications held
	// from before registration are then delivered in emission order.
	Register(hs map[Kind]Handler)
	// Off unregisters the handler for kind.
	Off(kind Kind)
}

// CreateOptions tune an engine at creation.
type CreateOptions struct {
	Autoplay        bool // false when an ad module takes control of playback
	HideSeekbar     bool // live streams
	OutputMenu      bool
	CaptionMenu     bool
	ControlsEnabled bool
	ThemeColor      uint32
	Surface         any
}

// Factory creates engines.
type Factory interface {
	Create(ctx context.Context, d media.Descriptor, opts CreateOptions) (Engine, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(ctx context.Context, d media.Descriptor, opts CreateOptions) (Engine, error)

// Create calls f.
func (f FactoryFunc) Create(ctx context.Context, d media.Descriptor, opts CreateOptions) (Engine, error) {
	return f(ctx, d, opts)
}
