// File: game/commands.go
package game

import (
	"encoding/json"
	"fmt"
)

// Command is an inbound client event. The set of implementations is closed:
// DecodeCommand only ever returns one of the types below.
type Command interface {
	// RoomID is the room the command is addressed to.
	RoomID() string
	validate() error
}

// JoinRoom asks to be seated in a room, creating it if needed.
type JoinRoom struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HandleJoinRequest is the host's answer to a mid-game join request.
type HandleJoinRequest struct {
	Room             string          `json:"roomId"`
	RequesterID      string          `json:"requesterId"`
	Accepted         bool            `json:"accepted"`
	CurrentGameState json.RawMessage `json:"currentGameState,omitempty"`
}

// KickPlayer removes a player from the room.
type KickPlayer struct {
	Room     string `json:"roomId"`
	TargetID string `json:"targetId"`
}

// StartGame moves the room from waiting to playing.
type StartGame struct {
	Room string `json:"roomId"`
}

// RestartGame resets turn and pity timers of a running game.
type RestartGame struct {
	Room string `json:"roomId"`
}

// RollDice requests a server-side roll for a color.
type RollDice struct {
	Room  string `json:"roomId"`
	Color Color  `json:"color"`
}

// MoveToken is relayed to the room untouched.
type MoveToken struct {
	Room  string `json:"roomId"`
	Color Color  `json:"color"`
	Idx   int    `json:"idx"`
	Roll  int    `json:"roll"`
}

// PassTurn advances the turn to the next active color.
type PassTurn struct {
	Room string `json:"roomId"`
}

// SendInteraction is relayed to the room untouched.
type SendInteraction struct {
	Room    string          `json:"roomId"`
	Color   Color           `json:"color"`
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
}

func (c JoinRoom) RoomID() string          { return c.ID }
func (c HandleJoinRequest) RoomID() string { return c.Room }
func (c KickPlayer) RoomID() string        { return c.Room }
func (c StartGame) RoomID() string         { return c.Room }
func (c RestartGame) RoomID() string       { return c.Room }
func (c RollDice) RoomID() string          { return c.Room }
func (c MoveToken) RoomID() string         { return c.Room }
func (c PassTurn) RoomID() string          { return c.Room }
func (c SendInteraction) RoomID() string   { return c.Room }

func requireRoomID(id string) error {
	if id == "" {
		return ErrInvalidRoomID
	}
	return nil
}

func (c JoinRoom) validate() error { return requireRoomID(c.ID) }

func (c HandleJoinRequest) validate() error {
	if err := requireRoomID(c.Room); err != nil {
		return err
	}
	if c.RequesterID == "" {
		return fmt.Errorf("%w: missing requesterId", ErrMalformedCommand)
	}
	return nil
}

func (c KickPlayer) validate() error {
	if err := requireRoomID(c.Room); err != nil {
		return err
	}
	if c.TargetID == "" {
		return fmt.Errorf("%w: missing targetId", ErrMalformedCommand)
	}
	return nil
}

// requireColor rejects colors outside the palette.
func requireColor(id string, c Color) error {
	if err := requireRoomID(id); err != nil {
		return err
	}
	if !c.Valid() {
		return fmt.Errorf("%w: unknown color %q", ErrMalformedCommand, c)
	}
	return nil
}

func (c StartGame) validate() error       { return requireRoomID(c.Room) }
func (c RestartGame) validate() error     { return requireRoomID(c.Room) }
func (c RollDice) validate() error        { return requireColor(c.Room, c.Color) }
func (c MoveToken) validate() error       { return requireColor(c.Room, c.Color) }
func (c PassTurn) validate() error        { return requireRoomID(c.Room) }
func (c SendInteraction) validate() error { return requireColor(c.Room, c.Color) }

// MessageHeader identifies a frame's type before the rest is decoded.
type MessageHeader struct {
	MessageType string `json:"messageType"`
}

// DecodeCommand parses one inbound frame. Wrong-typed fields, a missing room
// id or an unknown messageType are errors; the caller drops such frames.
func DecodeCommand(frame []byte) (Command, error) {
	var header MessageHeader
	if err := json.Unmarshal(frame, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCommand, err)
	}

	switch header.MessageType {
	case "joinRoom":
		return decodeAs[JoinRoom](frame)
	case "handleJoinRequest":
		return decodeAs[HandleJoinRequest](frame)
	case "kickPlayer":
		return decodeAs[KickPlayer](frame)
	case "startGame":
		return decodeAs[StartGame](frame)
	case "restartGame":
		return decodeAs[RestartGame](frame)
	case "rollDice":
		return decodeAs[RollDice](frame)
	case "moveToken":
		return decodeAs[MoveToken](frame)
	case "passTurn":
		return decodeAs[PassTurn](frame)
	case "sendInteraction":
		return decodeAs[SendInteraction](frame)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, header.MessageType)
}

func decodeAs[T Command](frame []byte) (Command, error) {
	var cmd T
	if err := json.Unmarshal(frame, &cmd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCommand, err)
	}
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}
