package orientation

import "sync"

// ManualSensor is a Sensor fed by explicit Sample calls. The demo console and
// tests drive it directly.
type ManualSensor struct {
	mu         sync.Mutex
	fn         func(angle int)
	autoRotate bool
	enables    int
}

// NewManualSensor returns a disabled sensor with the given auto-rotate setting.
func NewManualSensor(autoRotate bool) *ManualSensor {
	return &ManualSensor{autoRotate: autoRotate}
}

func (s *ManualSensor) Enable(fn func(angle int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
	s.enables++
}

func (s *ManualSensor) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = nil
}

func (s *ManualSensor) AutoRotate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoRotate
}

// SetAutoRotate changes the OS-level setting.
func (s *ManualSensor) SetAutoRotate(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoRotate = on
}

// Sample delivers angle to the enabled callback. It returns false when disabled.
func (s *ManualSensor) Sample(angle int) bool {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(angle)
	return true
}

// Enabled reports whether a callback is installed.
func (s *ManualSensor) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn != nil
}

// Enables returns how many times Enable was called.
func (s *ManualSensor) Enables() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enables
}

var _ Sensor = (*ManualSensor)(nil)
