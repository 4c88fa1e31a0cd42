//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/llehouerou/sessionctl/internal/media"
	"github.com/llehouerou/sessionctl/internal/playerror"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlay,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpPlay,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
		{
			name:     "output switch",
			op:       OpChangeOutput,
			err:      errors.New(`no output labelled "8k"`),
			expected: `Failed to switch quality: no output labelled "8k"`,
		},
		{
			name:     "history operation",
			op:       OpHistoryOpen,
			err:      errors.New("disk full"),
			expected: "Failed to open playback history: disk full",
		},
		{
			name:     "classified error shows its own message",
			op:       OpPlay,
			err:      playerror.New(playerror.EmptyURL),
			expected: "The requested media has no URL!",
		},
		{
			name:     "wrapped classified error",
			op:       OpSetMedia,
			err:      fmt.Errorf("gate: %w", playerror.New(playerror.RootedDevice)),
			expected: "Specified media cannot play on rooted devices.",
		},
		{
			name:     "unknown classification keeps the operation",
			op:       OpPlay,
			err:      playerror.Classify(errors.New("decoder failed"), false),
			expected: "Failed to start playback: decoder failed",
		},
		{
			name:     "invalid media keeps the operation",
			op:       OpSetMedia,
			err:      playerror.Wrap(playerror.InvalidMedia, media.ErrEmpty),
			expected: "Failed to load media: Invalid media data.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpChangeCaption,
			context:  "en",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats with context",
			op:       OpChangeCaption,
			context:  "fr",
			err:      errors.New("not found"),
			expected: "Failed to switch captions 'fr': not found",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpSeek,
			context:  "",
			err:      errors.New("not seekable"),
			expected: "Failed to seek: not seekable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith() = %q, want %q", result, tt.expected)
			}
		})
	}
}
