package peer

import (
	"sync"

	"github.com/gorilla/websocket"
)

// wsTransport adapts a gorilla websocket connection to the Transport
// interface. Reads run on a single pump goroutine; writes are serialized
// by a mutex.
type wsTransport struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu        sync.Mutex
	onMessage func(*Envelope)
	onClose   func()
	onError   func(error)
	closed    bool
	started   bool
}

// NewWebsocketTransport wraps an established websocket connection. The
// read pump starts on the first OnMessage registration so no frames are
// consumed before a handler exists.
func NewWebsocketTransport(conn *websocket.Conn) Transport {
	return &wsTransport{conn: conn}
}

// DialWebsocket connects to a relay endpoint and wraps the connection
func DialWebsocket(url string) (Transport, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return NewWebsocketTransport(conn), nil
}

func (t *wsTransport) Send(msg *Envelope) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTransportClosed
	}
	t.mu.Unlock()

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteJSON(msg)
}

func (t *wsTransport) OnMessage(fn func(*Envelope)) {
	t.mu.Lock()
	t.onMessage = fn
	start := !t.started && fn != nil
	if start {
		t.started = true
	}
	t.mu.Unlock()

	if start {
		go t.readPump()
	}
}

func (t *wsTransport) OnClose(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClose = fn
}

func (t *wsTransport) OnError(fn func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onError = fn
}

func (t *wsTransport) readPump() {
	for {
		var msg Envelope
		if err := t.conn.ReadJSON(&msg); err != nil {
			t.mu.Lock()
			wasClosed := t.closed
			t.closed = true
			onErr := t.onError
			onClose := t.onClose
			t.mu.Unlock()

			if !wasClosed {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && onErr != nil {
					onErr(err)
				}
				if onClose != nil {
					onClose()
				}
			}
			return
		}

		t.mu.Lock()
		fn := t.onMessage
		t.mu.Unlock()
		if fn != nil {
			fn(&msg)
		}
	}
}

func (t *wsTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.writeMu.Lock()
	_ = t.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	t.writeMu.Unlock()

	return t.conn.Close()
}
