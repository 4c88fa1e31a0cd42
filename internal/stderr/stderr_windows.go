//go:build windows

// Package stderr is a no-op on Windows, whose audio backends do not write
// to the console.
package stderr

import "os"

// Capture is inert on Windows.
type Capture struct{}

// Start is a no-op on Windows.
func Start(func(line string)) (*Capture, error) {
	return &Capture{}, nil
}

// WriteOriginal writes to stderr.
func (*Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop is a no-op on Windows.
func (*Capture) Stop() {}
