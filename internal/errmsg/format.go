// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/llehouerou/sessionctl/internal/playerror"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Session operations
	OpSetMedia      Op = "load media"
	OpPlay          Op = "start playback"
	OpPause         Op = "pause"
	OpStop          Op = "stop"
	OpSeek          Op = "seek"
	OpDestroy       Op = "release player"
	OpChangeOutput  Op = "switch quality"
	OpChangeCaption Op = "switch captions"
	OpFullscreen    Op = "toggle fullscreen"

	// History operations
	OpHistoryOpen Op = "open playback history"
	OpHistorySave Op = "save playback history"
	OpHistoryLoad Op = "load playback history"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize session"
)

// Format creates a user-friendly error message. Classified playback errors
// already carry a message meant for the user and are shown as-is.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	var perr *playerror.Error
	if errors.As(err, &perr) && perr.Kind != playerror.Unknown && perr.Kind != playerror.InvalidMedia {
		return perr.Error()
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
