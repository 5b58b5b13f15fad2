// File: game/messages.go
package game

import (
	"encoding/json"

	"github.com/lguibr/ludo/bollywood"
)

// --- Outbound events (Server -> Client) ---

// Event is an outbound frame. Every event carries its messageType.
type Event interface {
	EventType() string
}

// ConnectedEvent tells a fresh connection its opaque id.
type ConnectedEvent struct {
	MessageType  string `json:"messageType"` // "connected"
	ConnectionID string `json:"connectionId"`
}

// JoinedEvent acknowledges a seat to the joining connection.
type JoinedEvent struct {
	MessageType string `json:"messageType"` // "joined"
	Color       Color  `json:"color"`
	RoomID      string `json:"roomId"`
	IsHost      bool   `json:"isHost"`
	Name        string `json:"name"`
}

// UpdatePlayersEvent is the full roster plus the current host.
type UpdatePlayersEvent struct {
	MessageType string   `json:"messageType"` // "updatePlayers"
	Players     []Player `json:"players"`
	HostID      string   `json:"hostId"`
}

// ErrorMsgEvent carries a human readable rejection.
type ErrorMsgEvent struct {
	MessageType string `json:"messageType"` // "errorMsg"
	Message     string `json:"message"`
}

// WaitingForHostApprovalEvent tells a mid-game joiner its request is queued.
type WaitingForHostApprovalEvent struct {
	MessageType string `json:"messageType"` // "waitingForHostApproval"
}

// JoinRequestEvent asks the host to approve a mid-game joiner.
type JoinRequestEvent struct {
	MessageType   string `json:"messageType"` // "joinRequest"
	RequesterID   string `json:"requesterId"`
	RequesterName string `json:"requesterName"`
}

// MidGameJoinEvent announces an approved mid-game seat.
type MidGameJoinEvent struct {
	MessageType  string          `json:"messageType"` // "midGameJoin"
	ActiveColors []Color         `json:"activeColors"`
	NewColor     Color           `json:"newColor"`
	TurnColor    Color           `json:"turnColor"`
	GameState    json.RawMessage `json:"gameState,omitempty"`
}

// TurnChangedEvent names the color now on turn.
type TurnChangedEvent struct {
	MessageType string `json:"messageType"` // "turnChanged"
	Color       Color  `json:"color"`
}

// MigrateColorEvent announces the endgame seat move.
type MigrateColorEvent struct {
	MessageType string `json:"messageType"` // "migrateColor"
	OldColor    Color  `json:"oldColor"`
	NewColor    Color  `json:"newColor"`
}

// KickedOutEvent is sent to the removed connection only.
type KickedOutEvent struct {
	MessageType string `json:"messageType"` // "kickedOut"
}

// PlayerKickedEvent tells the room which seat was removed.
type PlayerKickedEvent struct {
	MessageType  string  `json:"messageType"` // "playerKicked"
	Color        Color   `json:"color"`
	ActiveColors []Color `json:"activeColors"`
}

// GameStartedEvent and GameRestartedEvent share a layout.
type GameStartedEvent struct {
	MessageType  string  `json:"messageType"` // "gameStarted" or "gameRestarted"
	ActiveColors []Color `json:"activeColors"`
	TurnColor    Color   `json:"turnColor"`
}

// DiceRolledEvent is the server's roll result.
type DiceRolledEvent struct {
	MessageType string `json:"messageType"` // "diceRolled"
	Color       Color  `json:"color"`
	Roll        int    `json:"roll"`
}

// TokenMovedEvent relays a move.
type TokenMovedEvent struct {
	MessageType string `json:"messageType"` // "tokenMoved"
	Color       Color  `json:"color"`
	Idx         int    `json:"idx"`
	Roll        int    `json:"roll"`
}

// ShowInteractionEvent relays an emote or chat line.
type ShowInteractionEvent struct {
	MessageType string          `json:"messageType"` // "showInteraction"
	Color       Color           `json:"color"`
	Type        string          `json:"type"`
	Content     json.RawMessage `json:"content,omitempty"`
}

// PlayerStatusEvent reports a seat going offline.
type PlayerStatusEvent struct {
	MessageType string `json:"messageType"` // "playerStatus"
	Color       Color  `json:"color"`
	Status      string `json:"status"`
}

func (e ConnectedEvent) EventType() string              { return e.MessageType }
func (e JoinedEvent) EventType() string                 { return e.MessageType }
func (e UpdatePlayersEvent) EventType() string          { return e.MessageType }
func (e ErrorMsgEvent) EventType() string               { return e.MessageType }
func (e WaitingForHostApprovalEvent) EventType() string { return e.MessageType }
func (e JoinRequestEvent) EventType() string            { return e.MessageType }
func (e MidGameJoinEvent) EventType() string            { return e.MessageType }
func (e TurnChangedEvent) EventType() string            { return e.MessageType }
func (e MigrateColorEvent) EventType() string           { return e.MessageType }
func (e KickedOutEvent) EventType() string              { return e.MessageType }
func (e PlayerKickedEvent) EventType() string           { return e.MessageType }
func (e GameStartedEvent) EventType() string            { return e.MessageType }
func (e DiceRolledEvent) EventType() string             { return e.MessageType }
func (e TokenMovedEvent) EventType() string             { return e.MessageType }
func (e ShowInteractionEvent) EventType() string        { return e.MessageType }
func (e PlayerStatusEvent) EventType() string           { return e.MessageType }

const (
	msgRoomFull         = "Room is full!"
	msgJoinRejected     = "Host rejected your request or room is full."
	msgServerFull       = "Server is full!"
	playerStatusOffline = "offline"
)

// NewConnectedEvent builds the greeting sent on every new connection.
func NewConnectedEvent(connID string) ConnectedEvent {
	return ConnectedEvent{MessageType: "connected", ConnectionID: connID}
}

// --- Internal actor messages ---

// ClientCommand is a decoded client event plus the connection that sent it.
type ClientCommand struct {
	ConnID  string
	Command Command
}

// ClientDisconnected is sent once per lost connection.
type ClientDisconnected struct {
	ConnID string
}

// RedirectCommand returns a command to the manager because the room that
// received it has already shut down.
type RedirectCommand struct {
	ConnID  string
	Command Command
}

// RoomEmpty is sent by a RoomActor when no player is online any more.
type RoomEmpty struct {
	RoomID  string
	RoomPID *bollywood.PID
}

// CloseRoom tells a closed RoomActor to stop. The manager sends it after
// every command it routed to that room, so none of them are lost.
type CloseRoom struct{}

// RoomUpdated carries a fresh summary after each applied command.
type RoomUpdated struct {
	RoomID  string
	RoomPID *bollywood.PID
	Summary RoomSummary
}

// GetRoomState asks a RoomActor for a RoomSnapshot (use with Ask).
type GetRoomState struct{}

// GetRoomListRequest asks the manager for all live rooms (use with Ask).
type GetRoomListRequest struct{}

// RoomListResponse answers GetRoomListRequest.
type RoomListResponse struct {
	Rooms map[string]RoomSummary `json:"rooms"`
}

// Broadcaster messages.

// AddClient registers a live connection.
type AddClient struct {
	ID   string
	Conn ClientConnection
}

// RemoveClient forgets a connection and its group memberships.
type RemoveClient struct {
	ID string
}

// JoinGroup adds a registered connection to a group.
type JoinGroup struct {
	Group string
	ID    string
}

// LeaveGroup removes a connection from a group.
type LeaveGroup struct {
	Group string
	ID    string
}

// DropGroup forgets a group entirely.
type DropGroup struct {
	Group string
}

// SendToClient writes an event to one connection.
type SendToClient struct {
	ID    string
	Event Event
}

// BroadcastToGroup writes an event to every member of a group.
type BroadcastToGroup struct {
	Group string
	Event Event
}

// GetClientCount asks the broadcaster how many connections it holds (use with Ask).
type GetClientCount struct{}

// GetGroupMembers asks the broadcaster for a group's member ids (use with Ask).
type GetGroupMembers struct {
	Group string
}
