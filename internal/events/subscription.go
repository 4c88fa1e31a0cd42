package events

const eventBufferSize = 64

// Subscription provides an event channel for an asynchronous consumer.
type Subscription struct {
	Events <-chan Event
	Done   <-chan struct{}

	// Internal write channels
	eventCh chan Event
	doneCh  chan struct{}
}

// newSubscription creates a new subscription with a buffered channel.
func newSubscription() *Subscription {
	s := &Subscription{
		eventCh: make(chan Event, eventBufferSize),
		doneCh:  make(chan struct{}),
	}
	s.Events = s.eventCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers e without blocking. It reports false when the buffer is full.
func (s *Subscription) send(e Event) bool {
	select {
	case s.eventCh <- e:
		return true
	default:
		return false
	}
}
