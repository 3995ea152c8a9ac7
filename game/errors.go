package game

import "errors"

var (
	// registration rejections, surfaced to the connecting caller only
	ErrAlreadyConnected = errors.New("already-connected")
	ErrFullGame         = errors.New("full-game")
	ErrRoomClosed       = errors.New("room-closed")

	// protocol error for undecodable or unknown inbound payloads
	ErrUnknownEvent = errors.New("unknown-event")

	// ErrInvariant marks an engine precondition that should be
	// impossible. Fatal for the owning room, never for the process.
	ErrInvariant = errors.New("engine-invariant-violation")
)
