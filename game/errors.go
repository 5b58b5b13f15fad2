// File: game/errors.go
package game

import "errors"

// Rejections produced by the room state machine. Only ErrRoomFull and a
// rejected join request ever reach a client, as errorMsg events; the rest
// are dropped after being logged.
var (
	ErrRoomFull         = errors.New("room is full")
	ErrUnauthorized     = errors.New("only the host may do this")
	ErrStaleAction      = errors.New("stale or out-of-turn action")
	ErrInvalidRoomID    = errors.New("invalid room id")
	ErrMalformedCommand = errors.New("malformed command")
	ErrUnknownCommand   = errors.New("unknown command")
)
