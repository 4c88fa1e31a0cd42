// Package playerror maps engine and session failures to a closed set of
// user-visible error kinds.
package playerror

import (
	"errors"
	"fmt"
)

// Kind is the classified error category.
type Kind int

const (
	Unknown Kind = iota
	InvalidMedia
	EmptyURL
	RootedDevice
	DRMUnauthorized
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case InvalidMedia:
		return "InvalidMedia"
	case EmptyURL:
		return "EmptyUrl"
	case RootedDevice:
		return "RootedDevice"
	case DRMUnauthorized:
		return "DrmUnauthorized"
	case Unknown:
		return "Unknown"
	default:
		return "Unknown"
	}
}

// Gates reports whether the kind disables the session until new media is set.
func (k Kind) Gates() bool {
	return k == RootedDevice
}

// ErrDRMUnauthorized is what engines wrap when the license server refuses
// the entitlement.
var ErrDRMUnauthorized = errors.New("drm: unsupported or unauthorized")

var defaultMessages = map[Kind]string{
	InvalidMedia: "Invalid media data.",
	EmptyURL:     "The requested media has no URL!",
	RootedDevice: "Specified media cannot play on rooted devices.",
	Unknown:      "An unknown error occurred.",
}

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New returns an error of the given kind with its default message.
func New(kind Kind) *Error {
	return &Error{Kind: kind, Message: defaultMessages[kind]}
}

// Wrap returns an error of kind carrying cause.
func Wrap(kind Kind, cause error) *Error {
	e := New(kind)
	e.Cause = cause
	return e
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by kind so errors.Is(err, playerror.New(EmptyURL)) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// WithMessage returns a copy with msg as the user-facing message.
func (e *Error) WithMessage(msg string) *Error {
	c := *e
	c.Message = msg
	return &c
}

// Classify maps any failure to a classified error. Already classified errors
// are returned as-is. A DRM entitlement failure gets a message that depends on
// whether the content is audio only; anything else is Unknown with the
// original message preserved.
func Classify(err error, audioOnly bool) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, ErrDRMUnauthorized) {
		what := "watch this video"
		if audioOnly {
			what = "listen to this audio"
		}
		return &Error{
			Kind:    DRMUnauthorized,
			Message: fmt.Sprintf("You're not allowed to %s", what),
			Cause:   err,
		}
	}
	return &Error{Kind: Unknown, Message: err.Error(), Cause: err}
}
