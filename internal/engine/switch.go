package engine

import (
	"context"
	"errors"

	"github.com/llehouerou/sessionctl/internal/media"
)

// ErrNoEngine is returned by Switch when no factory accepts the descriptor.
var ErrNoEngine = errors.New("engine: no factory for media")

// Switch routes audio-only media to Audio and everything else to Video.
// A nil Audio sends audio-only media to Video as well.
type Switch struct {
	Audio Factory
	Video Factory
}

// Create implements Factory.
func (s Switch) Create(ctx context.Context, d media.Descriptor, opts CreateOptions) (Engine, error) {
	f := s.Video
	if d.IsAudioOnly && s.Audio != nil {
		f = s.Audio
	}
	if f == nil {
		return nil, ErrNoEngine
	}
	return f.Create(ctx, d, opts)
}

var _ Factory = Switch{}
