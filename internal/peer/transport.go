package peer

import "sync"

// Transport moves envelopes between the two sides of a room. Callbacks
// are registered before traffic flows; implementations deliver messages
// one at a time.
type Transport interface {
	// Send delivers an envelope to the other side
	Send(msg *Envelope) error

	// OnMessage registers the inbound message handler
	OnMessage(fn func(*Envelope))

	// OnClose registers a handler for the transport closing, voluntarily
	// or not
	OnClose(fn func())

	// OnError registers a handler for transport failures
	OnError(fn func(error))

	// Close tears the transport down
	Close() error
}

// loopback is an in-process Transport half, delivering synchronously to
// its twin. Used by tests and by same-process host/guest pairs.
type loopback struct {
	mu        sync.Mutex
	twin      *loopback
	onMessage func(*Envelope)
	onClose   func()
	closed    bool
}

// Loopback returns a connected pair of in-process transports
func Loopback() (Transport, Transport) {
	a := &loopback{}
	b := &loopback{}
	a.twin = b
	b.twin = a
	return a, b
}

func (l *loopback) Send(msg *Envelope) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrTransportClosed
	}
	twin := l.twin
	l.mu.Unlock()

	twin.mu.Lock()
	if twin.closed {
		twin.mu.Unlock()
		return ErrTransportClosed
	}
	fn := twin.onMessage
	twin.mu.Unlock()

	if fn != nil {
		fn(msg)
	}
	return nil
}

func (l *loopback) OnMessage(fn func(*Envelope)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onMessage = fn
}

func (l *loopback) OnClose(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onClose = fn
}

func (l *loopback) OnError(fn func(error)) {}

func (l *loopback) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.twin.mu.Lock()
	closed := l.twin.closed
	l.twin.closed = true
	fn := l.twin.onClose
	l.twin.mu.Unlock()

	if !closed && fn != nil {
		fn()
	}
	return nil
}
