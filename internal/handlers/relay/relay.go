// Package relay pairs a host and a guest behind a shareable room code
// and forwards their frames verbatim. The relay never inspects game
// traffic; its only own frames are the pairing control messages.
package relay

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lastchamber/internal/common/uuid"
	"lastchamber/internal/peer"
)

// DefaultIdleTimeout is how long an inactive room survives before the
// reaper closes it
const DefaultIdleTimeout = 30 * time.Minute

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type side struct {
	id   string
	conn *websocket.Conn

	writeMu sync.Mutex
}

func (s *side) writeJSON(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *side) writeRaw(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(messageType, data)
}

type room struct {
	code string

	mu         sync.Mutex
	host       *side
	guest      *side
	lastActive time.Time
	closed     bool
}

// Config holds relay configuration
type Config struct {
	// Logger is the structured logger, a no-op logger when zero
	Logger zerolog.Logger

	// IdleTimeout is how long an inactive room survives; zero means
	// DefaultIdleTimeout
	IdleTimeout time.Duration

	// UUIDGenerator generates connection ids for logging
	UUIDGenerator uuid.UUID
}

// Manager owns the rooms and hands out codes
type Manager struct {
	log         zerolog.Logger
	idleTimeout time.Duration
	uuider      uuid.UUID

	mu    sync.Mutex
	rooms map[string]*room

	stop chan struct{}
	once sync.Once
}

// NewManager creates a relay manager and starts its idle reaper
func NewManager(cfg *Config) *Manager {
	if cfg == nil {
		cfg = &Config{}
	}
	idle := cfg.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	uuider := cfg.UUIDGenerator
	if uuider == nil {
		uuider = uuid.New()
	}

	m := &Manager{
		log:         cfg.Logger,
		idleTimeout: idle,
		uuider:      uuider,
		rooms:       make(map[string]*room),
		stop:        make(chan struct{}),
	}
	go m.reaperLoop()
	return m
}

// Close stops the reaper and tears down all rooms
func (m *Manager) Close() {
	m.once.Do(func() {
		close(m.stop)
	})

	m.mu.Lock()
	rooms := make([]*room, 0, len(m.rooms))
	for _, rm := range m.rooms {
		rooms = append(rooms, rm)
	}
	m.rooms = make(map[string]*room)
	m.mu.Unlock()

	for _, rm := range rooms {
		rm.closeAll()
	}
}

// RoomCount returns the number of live rooms
func (m *Manager) RoomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// newRoom allocates a room under a fresh non-colliding code
func (m *Manager) newRoom() *room {
	m.mu.Lock()
	defer m.mu.Unlock()

	for {
		code := randomCode()
		if _, exists := m.rooms[code]; exists {
			continue
		}
		rm := &room{
			code:       code,
			lastActive: time.Now(),
		}
		m.rooms[code] = rm
		return rm
	}
}

func (m *Manager) lookupRoom(code string) *room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms[code]
}

func (m *Manager) dropRoom(code string) {
	m.mu.Lock()
	delete(m.rooms, code)
	m.mu.Unlock()
}

func (m *Manager) reaperLoop() {
	ticker := time.NewTicker(m.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
		}

		cutoff := time.Now().Add(-m.idleTimeout)

		m.mu.Lock()
		var stale []*room
		for code, rm := range m.rooms {
			rm.mu.Lock()
			last := rm.lastActive
			rm.mu.Unlock()
			if last.Before(cutoff) {
				delete(m.rooms, code)
				stale = append(stale, rm)
			}
		}
		m.mu.Unlock()

		for _, rm := range stale {
			m.log.Info().Str("room", rm.code).Msg("reaping idle room")
			rm.closeAll()
		}
	}
}

// ServeHTTP upgrades the connection and attaches it to a room.
// role=host creates a room; role=guest&code=... joins one.
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	code := r.URL.Query().Get("code")

	switch role {
	case "host":
	case "guest":
		if code == "" {
			http.Error(w, "missing room code", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "role must be host or guest", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	s := &side{
		id:   m.uuider.NewUUID(),
		conn: conn,
	}

	if role == "host" {
		m.serveHost(s)
		return
	}
	m.serveGuest(s, code)
}

func (m *Manager) serveHost(s *side) {
	rm := m.newRoom()

	rm.mu.Lock()
	rm.host = s
	rm.mu.Unlock()

	m.log.Info().Str("room", rm.code).Str("conn", s.id).Msg("room created")

	if err := s.writeJSON(&peer.Envelope{
		Type: peer.MessageRoomCreated,
		Code: rm.code,
	}); err != nil {
		m.dropRoom(rm.code)
		_ = s.conn.Close()
		return
	}

	m.pump(rm, s)
}

func (m *Manager) serveGuest(s *side, code string) {
	rm := m.lookupRoom(code)
	if rm == nil {
		m.rejectGuest(s, "room not found")
		return
	}

	rm.mu.Lock()
	if rm.closed || rm.guest != nil {
		rm.mu.Unlock()
		m.rejectGuest(s, "room is full")
		return
	}
	rm.guest = s
	rm.lastActive = time.Now()
	host := rm.host
	rm.mu.Unlock()

	m.log.Info().Str("room", rm.code).Str("conn", s.id).Msg("guest joined")

	_ = host.writeJSON(&peer.Envelope{Type: peer.MessagePeerJoined})

	m.pump(rm, s)
}

func (m *Manager) rejectGuest(s *side, reason string) {
	_ = s.writeJSON(&peer.Envelope{
		Type:    peer.MessageError,
		Message: reason,
	})
	_ = s.conn.Close()
}

// pump reads frames from one side and forwards them verbatim to the
// other; frames read before the other side attaches are dropped.
// Returns when the connection drops, which closes the room.
func (m *Manager) pump(rm *room, s *side) {
	defer m.teardown(rm, s)

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		// Frames claiming to be relay control messages are dropped so a
		// client cannot spoof pairing events.
		if isControlFrame(data) {
			continue
		}

		rm.mu.Lock()
		rm.lastActive = time.Now()
		other := rm.other(s)
		rm.mu.Unlock()

		if other == nil {
			continue
		}
		if err := other.writeRaw(messageType, data); err != nil {
			m.log.Warn().Str("room", rm.code).Err(err).Msg("forward failed")
		}
	}
}

func (rm *room) other(s *side) *side {
	if rm.host == s {
		return rm.guest
	}
	return rm.host
}

// teardown runs when either side drops. Rooms are not reusable: the
// surviving side gets peerLeft and the room is removed.
func (m *Manager) teardown(rm *room, s *side) {
	rm.mu.Lock()
	if rm.closed {
		rm.mu.Unlock()
		_ = s.conn.Close()
		return
	}
	rm.closed = true
	other := rm.other(s)
	rm.mu.Unlock()

	m.dropRoom(rm.code)

	m.log.Info().Str("room", rm.code).Str("conn", s.id).Msg("room closed")

	if other != nil {
		_ = other.writeJSON(&peer.Envelope{Type: peer.MessagePeerLeft})
		_ = other.conn.Close()
	}
	_ = s.conn.Close()
}

func (rm *room) closeAll() {
	rm.mu.Lock()
	rm.closed = true
	host, guest := rm.host, rm.guest
	rm.mu.Unlock()

	for _, s := range []*side{host, guest} {
		if s == nil {
			continue
		}
		_ = s.writeJSON(&peer.Envelope{Type: peer.MessagePeerLeft})
		_ = s.conn.Close()
	}
}

func isControlFrame(data []byte) bool {
	var probe struct {
		Type peer.MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	switch probe.Type {
	case peer.MessageRoomCreated, peer.MessagePeerJoined, peer.MessagePeerLeft, peer.MessageError:
		return true
	}
	return false
}
