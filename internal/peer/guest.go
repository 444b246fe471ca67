package peer

import (
	"sync"

	"lastchamber/internal/models"
	"lastchamber/internal/services/session"
)

// GuestConfig holds configuration for the guest side of a room
type GuestConfig struct {
	// Transport is the channel to the host
	Transport Transport

	// PlayerName is sent once in the playerInfo exchange
	PlayerName string

	// OnState fires after each incoming snapshot replaces the replica
	OnState func(*session.Snapshot)

	// OnPeerInfo fires when the host's playerInfo arrives
	OnPeerInfo func(name string)

	// OnDisconnect fires when the host drops; the room is terminal from
	// then on
	OnDisconnect func()

	// OnError fires on transport failures and relay error frames
	OnError func(error)
}

// Guest is the replica side of a peer room. It holds no game logic of
// its own: its state is whatever snapshot the host last sent, replaced
// wholesale on arrival.
type Guest struct {
	transport Transport
	cfg       *GuestConfig

	mu       sync.Mutex
	room     Room
	hostName string
	state    *session.Snapshot
	lastSeq  uint64
}

// NewGuest wires a guest onto a transport and announces itself
func NewGuest(cfg *GuestConfig) (*Guest, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Transport == nil {
		return nil, ErrNilTransport
	}

	g := &Guest{
		transport: cfg.Transport,
		cfg:       cfg,
		room:      Room{Role: RoleGuest, Connected: true},
	}

	cfg.Transport.OnMessage(g.handleMessage)
	cfg.Transport.OnClose(g.handleClose)
	cfg.Transport.OnError(g.handleError)

	err := cfg.Transport.Send(&Envelope{
		Type: MessagePlayerInfo,
		Name: cfg.PlayerName,
	})
	if err != nil {
		return nil, err
	}

	return g, nil
}

// State returns the last snapshot received from the host, nil before
// the first sync
func (g *Guest) State() *session.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Room returns the guest's view of the room
func (g *Guest) Room() Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.room
}

// HostName returns the host's display name, empty until playerInfo
// arrives
func (g *Guest) HostName() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hostName
}

// MakeGuess forwards a guess intent to the host. The replica does not
// change until the host's next snapshot comes back.
func (g *Guest) MakeGuess(direction models.GuessDirection) error {
	g.mu.Lock()
	connected := g.room.Connected
	g.mu.Unlock()
	if !connected {
		return ErrRoomClosed
	}

	return g.transport.Send(&Envelope{
		Type:   MessageIntent,
		Action: IntentMakeGuess,
		Guess:  direction,
	})
}

func (g *Guest) handleMessage(msg *Envelope) {
	switch msg.Type {
	case MessageFullSync:
		if msg.Snapshot == nil {
			return
		}
		g.mu.Lock()
		// Snapshots can arrive out of production order; never let an
		// older one overwrite a newer replica.
		if msg.Snapshot.Seq <= g.lastSeq {
			g.mu.Unlock()
			return
		}
		g.lastSeq = msg.Snapshot.Seq
		g.state = msg.Snapshot
		g.mu.Unlock()
		if g.cfg.OnState != nil {
			g.cfg.OnState(msg.Snapshot)
		}

	case MessagePlayerInfo:
		g.mu.Lock()
		g.hostName = msg.Name
		g.mu.Unlock()
		if g.cfg.OnPeerInfo != nil {
			g.cfg.OnPeerInfo(msg.Name)
		}

	case MessageError:
		g.handleError(Error(msg.Message))

	case MessagePeerLeft:
		g.handleClose()
	}
}

func (g *Guest) handleClose() {
	g.mu.Lock()
	wasConnected := g.room.Connected
	g.room.Connected = false
	g.mu.Unlock()

	if wasConnected && g.cfg.OnDisconnect != nil {
		g.cfg.OnDisconnect()
	}
}

func (g *Guest) handleError(err error) {
	if g.cfg.OnError != nil {
		g.cfg.OnError(err)
	}
}

// Close tears down the transport
func (g *Guest) Close() error {
	return g.transport.Close()
}
