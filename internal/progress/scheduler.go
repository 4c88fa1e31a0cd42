// Package progress runs the periodic position poll of a playing session.
package progress

import (
	"sync"
	"time"
)

// DefaultInterval is the tick period when none is configured.
const DefaultInterval = 250 * time.Millisecond

// Scheduler is a single restartable ticker.
//
// Each Start begins a new run with a fresh id. Ticks carry the id of the run
// that produced them, so a consumer that queues ticks can drop the ones whose
// run is no longer Current. Stop blocks until the ticker goroutine exited.
type Scheduler struct {
	interval time.Duration
	onTick   func(run uint64)

	mu   sync.Mutex
	run  uint64
	stop chan struct{}
	done chan struct{}
}

// New creates a stopped scheduler. onTick runs on the scheduler goroutine
// and must not block.
func New(interval time.Duration, onTick func(run uint64)) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, onTick: onTick}
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start begins ticking. It is a no-op returning false when already running.
// The first tick fires immediately.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return false
	}
	s.run++
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.run, s.stop, s.done)
	return true
}

// Stop cancels the current run and waits for its goroutine. No-op when stopped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether a run is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// Current reports whether run is the active run.
func (s *Scheduler) Current(run uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil && s.run == run
}

func (s *Scheduler) loop(run uint64, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.onTick(run)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			s.onTick(run)
		}
	}
}
