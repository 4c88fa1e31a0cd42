package engine

import "sync"

// Notifier keeps an engine's handlers and delivers its notifications.
//
// Notifications emitted before a handler for their kind is installed are
// held and delivered when one is, so a caller registering right after Create
// still sees the first state change. Register installs a whole handler set
// before delivering, which keeps held notifications in emission order; On
// delivers as soon as its one kind is installed. Emit only queues; Flush
// delivers, and must be called without engine locks held because handlers
// may call back.
type Notifier struct {
	mu       sync.Mutex
	handlers map[Kind]Handler
	pending  []Notification
	closed   bool
}

// On installs h for kind and delivers anything held for it.
func (n *Notifier) On(kind Kind, h Handler) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	if n.handlers == nil {
		n.handlers = make(map[Kind]Handler)
	}
	n.handlers[kind] = h
	n.mu.Unlock()
	n.Flush()
}

// Register installs every handler in hs, then delivers what is held.
func (n *Notifier) Register(hs map[Kind]Handler) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	if n.handlers == nil {
		n.handlers = make(map[Kind]Handler, len(hs))
	}
	for kind, h := range hs {
		n.handlers[kind] = h
	}
	n.mu.Unlock()
	n.Flush()
}

// Off removes the handler for kind.
func (n *Notifier) Off(kind Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.handlers, kind)
}

// Emit queues note.
func (n *Notifier) Emit(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.closed {
		n.pending = append(n.pending, note)
	}
}

// Flush delivers queued notifications that have a handler, in order.
func (n *Notifier) Flush() {
	for {
		n.mu.Lock()
		idx := -1
		var h Handler
		for i, note := range n.pending {
			if h = n.handlers[note.Kind]; h != nil {
				idx = i
				break
			}
		}
		if idx < 0 {
			n.mu.Unlock()
			return
		}
		note := n.pending[idx]
		n.pending = append(n.pending[:idx], n.pending[idx+1:]...)
		n.mu.Unlock()
		h(note)
	}
}

// Close drops handlers and held notifications. Later calls are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.handlers = nil
	n.pending = nil
}
