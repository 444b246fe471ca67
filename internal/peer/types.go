package peer

import (
	"lastchamber/internal/models"
	"lastchamber/internal/services/session"
)

// Role identifies a side of a peer room
type Role string

const (
	// RoleHost runs the authoritative session
	RoleHost Role = "host"

	// RoleGuest renders snapshots and forwards intents
	RoleGuest Role = "guest"
)

// Room describes a peer room from one side's perspective
type Room struct {
	// Code is the shareable room code
	Code string `json:"code"`

	// Role is this side's role
	Role Role `json:"role"`

	// Connected reports whether the other side is attached
	Connected bool `json:"connected"`
}

// MessageType discriminates peer protocol messages
type MessageType string

const (
	// MessagePlayerInfo is exchanged once in each direction after the
	// connection establishes
	MessagePlayerInfo MessageType = "playerInfo"

	// MessageFullSync carries a complete host state snapshot, host to
	// guest only
	MessageFullSync MessageType = "fullSync"

	// MessageIntent carries a guest action request, guest to host only
	MessageIntent MessageType = "intent"

	// MessageRoomCreated is a relay control frame announcing the host's
	// room code
	MessageRoomCreated MessageType = "roomCreated"

	// MessagePeerJoined is a relay control frame announcing the guest
	// attached
	MessagePeerJoined MessageType = "peerJoined"

	// MessagePeerLeft is a relay control frame announcing the other side
	// dropped; terminal, the room is gone
	MessagePeerLeft MessageType = "peerLeft"

	// MessageError is a relay control frame carrying a join failure
	MessageError MessageType = "error"
)

// IntentMakeGuess is the only guest intent action
const IntentMakeGuess = "makeGuess"

// Envelope is the logical peer message. Exactly one payload group is set
// per type.
type Envelope struct {
	// Type discriminates the payload
	Type MessageType `json:"type"`

	// Name is the sender's display name (playerInfo)
	Name string `json:"name,omitempty"`

	// Snapshot is the full session state (fullSync)
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`

	// Action and Guess describe a guest intent (intent)
	Action string                `json:"action,omitempty"`
	Guess  models.GuessDirection `json:"guess,omitempty"`

	// Code is the room code (roomCreated)
	Code string `json:"code,omitempty"`

	// Message is a human-readable error (error)
	Message string `json:"message,omitempty"`
}
