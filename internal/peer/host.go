// Package peer replicates a game session across two participants: the
// host runs the one authoritative session and broadcasts full snapshots,
// the guest renders those snapshots and forwards its guesses as intents.
// There is no conflict resolution because only the host ever mutates
// state.
package peer

import (
	"sync"

	"lastchamber/internal/models"
	"lastchamber/internal/services/session"
)

// HostConfig holds configuration for the host side of a room
type HostConfig struct {
	// Transport is the channel to the guest
	Transport Transport

	// PlayerName is sent once in the playerInfo exchange
	PlayerName string

	// Session is the base session configuration. Mode is forced to pvp
	// and the snapshot observer is chained to the broadcast.
	Session *session.Config

	// OnRoomCreated fires when the relay assigns this host a room code
	OnRoomCreated func(code string)

	// OnPeerInfo fires when the guest's playerInfo arrives
	OnPeerInfo func(name string)

	// OnPeerJoined fires when the guest attaches to the room
	OnPeerJoined func()

	// OnDisconnect fires when the guest drops; the room is terminal from
	// then on
	OnDisconnect func()

	// OnError fires on transport failures
	OnError func(error)
}

// Host is the authoritative side of a peer room
type Host struct {
	transport Transport
	sess      *session.Service
	cfg       *HostConfig

	mu        sync.Mutex
	room      Room
	guestName string
}

// NewHost wires a host: it owns the authoritative session and broadcasts
// a full snapshot on every state-affecting transition.
func NewHost(cfg *HostConfig) (*Host, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Transport == nil {
		return nil, ErrNilTransport
	}
	if cfg.Session == nil {
		return nil, ErrNilSession
	}

	h := &Host{
		transport: cfg.Transport,
		cfg:       cfg,
		room:      Room{Role: RoleHost},
	}

	sessCfg := *cfg.Session
	sessCfg.Mode = models.ModePvP
	chained := sessCfg.OnSnapshot
	sessCfg.OnSnapshot = func(snap *session.Snapshot) {
		if chained != nil {
			chained(snap)
		}
		h.broadcast(snap)
	}

	sess, err := session.New(&sessCfg)
	if err != nil {
		return nil, err
	}
	h.sess = sess

	cfg.Transport.OnMessage(h.handleMessage)
	cfg.Transport.OnClose(h.handleClose)
	cfg.Transport.OnError(h.handleError)

	sess.EnterLobby()

	return h, nil
}

// Session returns the authoritative session
func (h *Host) Session() *session.Service {
	return h.sess
}

// Room returns the host's view of the room
func (h *Host) Room() Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.room
}

// GuestName returns the guest's display name, empty until playerInfo
// arrives
func (h *Host) GuestName() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.guestName
}

// broadcast ships a full snapshot to the guest. Broadcasts before the
// guest attaches are dropped; the first post-attach transition resyncs.
func (h *Host) broadcast(snap *session.Snapshot) {
	h.mu.Lock()
	connected := h.room.Connected
	h.mu.Unlock()
	if !connected {
		return
	}

	err := h.transport.Send(&Envelope{
		Type:     MessageFullSync,
		Snapshot: snap,
	})
	if err != nil {
		h.handleError(err)
	}
}

func (h *Host) handleMessage(msg *Envelope) {
	switch msg.Type {
	case MessageRoomCreated:
		h.mu.Lock()
		h.room.Code = msg.Code
		h.mu.Unlock()
		if h.cfg.OnRoomCreated != nil {
			h.cfg.OnRoomCreated(msg.Code)
		}

	case MessagePeerJoined:
		h.mu.Lock()
		h.room.Connected = true
		h.mu.Unlock()

		// Introduce ourselves and bring the guest up to date.
		_ = h.transport.Send(&Envelope{
			Type: MessagePlayerInfo,
			Name: h.cfg.PlayerName,
		})
		h.broadcast(h.sess.Snapshot())

		if h.cfg.OnPeerJoined != nil {
			h.cfg.OnPeerJoined()
		}

	case MessagePlayerInfo:
		h.mu.Lock()
		h.guestName = msg.Name
		h.mu.Unlock()
		if h.cfg.OnPeerInfo != nil {
			h.cfg.OnPeerInfo(msg.Name)
		}

	case MessageIntent:
		// The guest plays the opponent side on the authoritative session.
		if msg.Action == IntentMakeGuess {
			h.sess.MakeGuess(models.SideAI, msg.Guess)
		}

	case MessagePeerLeft:
		h.handleClose()
	}
}

func (h *Host) handleClose() {
	h.mu.Lock()
	wasConnected := h.room.Connected
	h.room.Connected = false
	h.mu.Unlock()

	if wasConnected && h.cfg.OnDisconnect != nil {
		h.cfg.OnDisconnect()
	}
}

func (h *Host) handleError(err error) {
	if h.cfg.OnError != nil {
		h.cfg.OnError(err)
	}
}

// Close tears down the transport
func (h *Host) Close() error {
	return h.transport.Close()
}
