package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Output is where decoded audio goes. Lock and Unlock guard streamer
// mutation against the mixing goroutine, which holds the lock while it calls
// into queued streamers.
type Output interface {
	// Init prepares the device and returns the rate streamers must match.
	Init(rate beep.SampleRate) (beep.SampleRate, error)
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// speakerOutput drives the system speaker. The speaker is process-wide and
// initialized once, at the rate of the first media played.
type speakerOutput struct {
	mu   sync.Mutex
	rate beep.SampleRate
}

var defaultSpeaker = &speakerOutput{}

// Speaker returns the system speaker output.
func Speaker() Output {
	return defaultSpeaker
}

func (s *speakerOutput) Init(rate beep.SampleRate) (beep.SampleRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rate != 0 {
		return s.rate, nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return 0, err
	}
	s.rate = rate
	return rate, nil
}

func (s *speakerOutput) Play(st beep.Streamer) { speaker.Play(st) }

func (s *speakerOutput) Clear() { speaker.Clear() }

func (s *speakerOutput) Lock() { speaker.Lock() }

func (s *speakerOutput) Unlock() { speaker.Unlock() }
