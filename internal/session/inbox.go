package session

import (
	"sync"

	"github.com/llehouerou/sessionctl/internal/engine"
)

type msgKind int

const (
	msgEngine msgKind = iota
	msgTick
	msgOrientation
	msgBarrier
)

// message is one asynchronous input to the session. Engine and orientation
// messages carry the engine generation they were produced for; tick
// messages carry the scheduler run.
type message struct {
	kind  msgKind
	gen   uint64
	run   uint64
	note  engine.Notification
	angle int
	done  chan struct{}
}

// inbox is an unbounded FIFO so producers never block.
type inbox struct {
	mu     sync.Mutex
	items  []message
	closed bool
	wake   chan struct{}
}

func newInbox() *inbox {
	return &inbox{wake: make(chan struct{}, 1)}
}

func (q *inbox) push(m message) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		if m.done != nil {
			close(m.done)
		}
		return
	}
	q.items = append(q.items, m)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *inbox) takeAll() []message {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// close drops pending messages, releasing any barrier waiters.
func (q *inbox) close() {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.closed = true
	q.mu.Unlock()
	for _, m := range items {
		if m.done != nil {
			close(m.done)
		}
	}
}
