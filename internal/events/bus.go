package events

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/llehouerou/sessionctl/internal/metrics"
)

// Listener handles one event. It runs on whichever goroutine drains the bus
// and may call back into the session.
type Listener func(Event)

type listenerEntry struct {
	id uint64
	fn Listener
}

// item is either an event or a deferred action.
type item struct {
	ev     Event
	action func()
}

// Bus is an ordered fan-out of events to listeners and subscriptions.
//
// Producers Enqueue while holding their own lock and call Drain after
// releasing it. A single drainer delivers the queue in order; a Drain call
// made while another goroutine (or a listener) is draining returns at once
// and leaves the work to the active drainer. A panicking listener is
// recovered and does not stop delivery to the others.
type Bus struct {
	logger zerolog.Logger

	mu        sync.Mutex
	listeners []listenerEntry
	nextID    uint64
	queue     []item
	draining  bool
	subs      []*Subscription
	closed    bool
}

// NewBus creates an empty bus.
func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{logger: logger}
}

// Listen registers fn and returns a function that removes it.
func (b *Bus) Listen(fn Listener) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, l := range b.listeners {
			if l.id == id {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Subscribe creates a channel subscription. Its channel is buffered and
// lossy: when full, events are dropped for that subscription only.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := newSubscription()
	if b.closed {
		sub.close()
		return sub
	}
	b.subs = append(b.subs, sub)
	return sub
}

// Unsubscribe removes sub and closes its Done channel.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			sub.close()
			return
		}
	}
}

// Enqueue appends ev to the delivery queue without delivering it.
func (b *Bus) Enqueue(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, item{ev: ev})
}

// Defer appends an action that runs, in queue order, after every event
// enqueued before it has been delivered.
func (b *Bus) Defer(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, item{action: fn})
}

// Publish enqueues ev and drains.
func (b *Bus) Publish(ev Event) {
	b.Enqueue(ev)
	b.Drain()
}

// Drain delivers queued items until the queue is empty, unless a drain is
// already in progress.
func (b *Bus) Drain() {
	b.mu.Lock()
	if b.draining {
		b.mu.Unlock()
		return
	}
	b.draining = true
	for len(b.queue) > 0 {
		it := b.queue[0]
		b.queue[0] = item{}
		b.queue = b.queue[1:]
		listeners := append([]listenerEntry(nil), b.listeners...)
		subs := append([]*Subscription(nil), b.subs...)
		b.mu.Unlock()

		if it.action != nil {
			b.run(it.action)
		} else {
			b.deliver(it.ev, listeners, subs)
		}

		b.mu.Lock()
	}
	b.queue = nil
	b.draining = false
	b.mu.Unlock()
}

func (b *Bus) deliver(ev Event, listeners []listenerEntry, subs []*Subscription) {
	metrics.IncEvent(ev.Kind.String())
	for _, l := range listeners {
		b.call(l.fn, ev)
	}
	for _, s := range subs {
		if !s.send(ev) {
			metrics.SubscriptionDropsTotal.Inc()
		}
	}
}

func (b *Bus) call(fn Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ListenerPanicsTotal.Inc()
			b.logger.Error().
				Str("event", ev.Kind.String()).
				Interface("panic", r).
				Msg("event listener panicked")
		}
	}()
	fn(ev)
}

func (b *Bus) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Interface("panic", r).Msg("deferred bus action panicked")
		}
	}()
	fn()
}

// Close closes every subscription. Listeners stay registered.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, s := range b.subs {
		s.close()
	}
	b.subs = nil
}
