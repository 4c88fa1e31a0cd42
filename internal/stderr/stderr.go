//go:build !windows

// Package stderr captures output that C audio libraries (ALSA, oto) write
// straight to file descriptor 2, so it cannot corrupt the console layout.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"syscall"
)

// Capture redirects fd 2 into a pipe and hands each non-empty line to a sink.
type Capture struct {
	mu      sync.Mutex
	orig    int
	r, w    *os.File
	done    chan struct{}
	started bool
}

// Start begins capturing. sink runs on the capture goroutine.
// On error the program keeps writing to the original stderr.
func Start(sink func(line string)) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, r: r, w: w, done: make(chan struct{}), started: true}
	go c.read(sink)
	return c, nil
}

func (c *Capture) read(sink func(string)) {
	defer close(c.done)
	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			sink(line)
		}
	}
}

// WriteOriginal writes to the original stderr, bypassing capture.
func (c *Capture) WriteOriginal(msg string) {
	if c == nil {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = syscall.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr and waits for the sink to drain.
func (c *Capture) Stop() {
	if c == nil {
		return
	}
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.started = false
	_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = syscall.Close(c.orig)
	c.w.Close()
	c.mu.Unlock()

	<-c.done
	c.r.Close()
}
