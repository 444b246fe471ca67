package peer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lastchamber/internal/common/clock"
	"lastchamber/internal/models"
	"lastchamber/internal/services/session"
	"lastchamber/internal/trigger"
)

// orderedRoller keeps decks in construction order and puts the bullet in
// the last chamber, so every card round opens on the ace of spades and
// the first pull clicks empty
type orderedRoller struct{}

func (orderedRoller) Roll(sides int) int                 { return sides }
func (orderedRoller) Shuffle(n int, swap func(i, j int)) {}
func (orderedRoller) CoinFlip() bool                     { return true }

var peerTestTiming = &session.Timing{
	Deal:         100 * time.Millisecond,
	Reveal:       100 * time.Millisecond,
	Hold:         100 * time.Millisecond,
	AIThink:      10 * time.Second,
	TriggerStart: 100 * time.Millisecond,
}

var peerTestTriggerTiming = &trigger.Timing{
	Heartbeat:     10 * time.Millisecond,
	Spin:          20 * time.Millisecond,
	Pull:          30 * time.Millisecond,
	Result:        40 * time.Millisecond,
	CompleteShot:  50 * time.Millisecond,
	Sigh:          60 * time.Millisecond,
	CompleteEmpty: 70 * time.Millisecond,
}

type PeerTestSuite struct {
	suite.Suite
	clk            *clock.FakeClock
	hostTransport  Transport
	guestTransport Transport
	host           *Host
	guest          *Guest

	roomCodes     []string
	joined        int
	hostDropped   int
	guestDropped  int
	guestStates   []*session.Snapshot
	guestPeerName string
}

func (s *PeerTestSuite) SetupTest() {
	s.clk = clock.NewFake(time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC))
	s.hostTransport, s.guestTransport = Loopback()

	s.roomCodes = nil
	s.joined = 0
	s.hostDropped = 0
	s.guestDropped = 0
	s.guestStates = nil
	s.guestPeerName = ""

	host, err := NewHost(&HostConfig{
		Transport:  s.hostTransport,
		PlayerName: "Avery",
		Session: &session.Config{
			Roller:        orderedRoller{},
			Clock:         s.clk,
			Timing:        peerTestTiming,
			TriggerTiming: peerTestTriggerTiming,
		},
		OnRoomCreated: func(code string) { s.roomCodes = append(s.roomCodes, code) },
		OnPeerJoined:  func() { s.joined++ },
		OnDisconnect:  func() { s.hostDropped++ },
	})
	s.Require().NoError(err)
	s.host = host

	guest, err := NewGuest(&GuestConfig{
		Transport:  s.guestTransport,
		PlayerName: "Blake",
		OnState:    func(snap *session.Snapshot) { s.guestStates = append(s.guestStates, snap) },
		OnPeerInfo: func(name string) { s.guestPeerName = name },
		OnDisconnect: func() {
			s.guestDropped++
		},
	})
	s.Require().NoError(err)
	s.guest = guest
}

func TestPeerTestSuite(t *testing.T) {
	suite.Run(t, new(PeerTestSuite))
}

// attach simulates the relay's pairing control frame arriving at the host
func (s *PeerTestSuite) attach() {
	err := s.guestTransport.Send(&Envelope{Type: MessagePeerJoined})
	s.Require().NoError(err)
}

func (s *PeerTestSuite) TestConstructorValidation() {
	_, err := NewHost(nil)
	s.Equal(ErrNilConfig, err)

	_, err = NewHost(&HostConfig{Transport: s.hostTransport})
	s.Equal(ErrNilSession, err)

	_, err = NewHost(&HostConfig{Session: &session.Config{}})
	s.Equal(ErrNilTransport, err)

	_, err = NewGuest(nil)
	s.Equal(ErrNilConfig, err)

	_, err = NewGuest(&GuestConfig{})
	s.Equal(ErrNilTransport, err)
}

func (s *PeerTestSuite) TestHostSessionIsForcedToPvP() {
	s.Equal(models.ModePvP, s.host.Session().Snapshot().Mode)
	s.Equal(models.PhaseLobby, s.host.Session().Snapshot().GamePhase)
}

func (s *PeerTestSuite) TestGuestIntroducesItselfOnConnect() {
	// The guest's playerInfo was sent during construction.
	s.Equal("Blake", s.host.GuestName())
}

func (s *PeerTestSuite) TestRoomCreatedSetsCode() {
	err := s.guestTransport.Send(&Envelope{Type: MessageRoomCreated, Code: "RR-ABC234"})
	s.Require().NoError(err)

	s.Equal("RR-ABC234", s.host.Room().Code)
	s.Equal([]string{"RR-ABC234"}, s.roomCodes)
	s.Equal(RoleHost, s.host.Room().Role)
}

func (s *PeerTestSuite) TestJoinHandshake() {
	s.attach()

	s.Equal(1, s.joined)
	s.True(s.host.Room().Connected)

	// The host introduced itself and synced its full state.
	s.Equal("Avery", s.guest.HostName())
	s.Equal("Avery", s.guestPeerName)
	s.Require().NotNil(s.guest.State())
	s.Equal(models.PhaseLobby, s.guest.State().GamePhase)
	s.True(s.guest.State().FullSync)
}

func (s *PeerTestSuite) TestNoBroadcastBeforeJoin() {
	s.host.Session().StartGame()
	s.Nil(s.guest.State())
}

func (s *PeerTestSuite) TestHostTransitionsReachGuest() {
	s.attach()

	s.host.Session().StartGame()
	s.clk.Advance(peerTestTiming.Deal)

	state := s.guest.State()
	s.Require().NotNil(state)
	s.Equal(models.PhaseCardGame, state.GamePhase)
	s.Equal(models.ModePvP, state.Mode)
	s.Equal(models.CardRoundGuessing, state.CardRound.Phase)
}

func (s *PeerTestSuite) TestGuestIntentDrivesHostSession() {
	s.attach()
	s.host.Session().StartGame()
	s.clk.Advance(peerTestTiming.Deal)

	// The host plays first and guesses correctly, passing the turn.
	s.host.Session().MakeGuess(models.SidePlayer, models.GuessLower)
	s.clk.Advance(peerTestTiming.Reveal)
	s.clk.Advance(peerTestTiming.Hold)
	s.Require().Equal(models.SideAI, s.guest.State().CurrentTurn)

	// The guest's guess travels as an intent and lands on the host's
	// session as the opponent side.
	err := s.guest.MakeGuess(models.GuessLower)
	s.Require().NoError(err)

	hostSnap := s.host.Session().Snapshot()
	s.Equal(models.CardRoundRevealing, hostSnap.CardRound.Phase)
	s.Equal(models.SideAI, hostSnap.CardRound.Guesser)

	// And the resulting snapshot came straight back.
	s.Equal(models.CardRoundRevealing, s.guest.State().CardRound.Phase)
}

func (s *PeerTestSuite) TestGuestIntentIgnoredOutOfTurn() {
	s.attach()
	s.host.Session().StartGame()
	s.clk.Advance(peerTestTiming.Deal)

	err := s.guest.MakeGuess(models.GuessLower)
	s.Require().NoError(err)

	// Host's turn; the intent changed nothing.
	s.Equal(models.CardRoundGuessing, s.host.Session().Snapshot().CardRound.Phase)
}

func (s *PeerTestSuite) TestGuestNeverMutatesItsOwnState() {
	s.attach()
	s.host.Session().StartGame()
	s.clk.Advance(peerTestTiming.Deal)

	before := s.guest.State()
	_ = s.guest.MakeGuess(models.GuessHigher)

	// Out of turn: no snapshot came back, so the replica is untouched.
	s.Same(before, s.guest.State())
}

func (s *PeerTestSuite) TestGuestDropsOutOfOrderSnapshots() {
	s.attach()
	s.host.Session().StartGame()
	s.clk.Advance(peerTestTiming.Deal)

	current := s.guest.State()
	s.Require().NotNil(current)
	s.Require().Greater(current.Seq, uint64(1))

	// A frame produced before the deal is delivered late; the replica
	// must not regress to it.
	stale := &session.Snapshot{FullSync: true, Seq: 1, GamePhase: models.PhaseLobby}
	err := s.hostTransport.Send(&Envelope{Type: MessageFullSync, Snapshot: stale})
	s.Require().NoError(err)
	s.Same(current, s.guest.State())

	// Newer frames still apply.
	fresh := &session.Snapshot{FullSync: true, Seq: current.Seq + 1, GamePhase: models.PhaseGameOver}
	err = s.hostTransport.Send(&Envelope{Type: MessageFullSync, Snapshot: fresh})
	s.Require().NoError(err)
	s.Same(fresh, s.guest.State())
}

func (s *PeerTestSuite) TestGuestCloseDisconnectsHost() {
	s.attach()

	s.Require().NoError(s.guest.Close())

	s.Equal(1, s.hostDropped)
	s.False(s.host.Room().Connected)
}

func (s *PeerTestSuite) TestHostCloseIsTerminalForGuest() {
	s.attach()

	s.Require().NoError(s.host.Close())
	s.Equal(1, s.guestDropped)
	s.False(s.guest.Room().Connected)

	err := s.guest.MakeGuess(models.GuessLower)
	s.Equal(ErrRoomClosed, err)
}

func (s *PeerTestSuite) TestPeerLeftFrameIsTerminal() {
	s.attach()

	err := s.hostTransport.Send(&Envelope{Type: MessagePeerLeft})
	s.Require().NoError(err)

	s.Equal(1, s.guestDropped)
	s.False(s.guest.Room().Connected)
}

func TestLoopbackClosePropagates(t *testing.T) {
	a, b := Loopback()

	closed := false
	b.OnClose(func() { closed = true })

	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !closed {
		t.Fatal("twin close handler did not fire")
	}

	if err := b.Send(&Envelope{Type: MessagePlayerInfo}); err != ErrTransportClosed {
		t.Fatalf("expected ErrTransportClosed, got %v", err)
	}
}
