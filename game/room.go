// File: game/room.go
package game

import (
	"fmt"

	"github.com/lguibr/ludo/utils"
)

// RoomStatus is the room's one-way lifecycle state.
type RoomStatus string

const (
	StatusWaiting RoomStatus = "waiting"
	StatusPlaying RoomStatus = "playing"
)

// RandomSource is the only source of randomness a room uses.
// *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// RollStat is a color's pity timer: after Target rolls without a six the
// next roll is forced to six.
type RollStat struct {
	Count  int `json:"count"`
	Target int `json:"target"`
}

// Room is the state of a single game session. It is not safe for concurrent
// use; a RoomActor owns each Room and applies one command at a time.
type Room struct {
	ID              string
	Status          RoomStatus
	Host            string
	Players         []*Player
	ActiveColors    []Color
	TurnColor       Color
	RollStats       map[Color]*RollStat
	PendingRequests map[string]string

	rng RandomSource
}

// NewRoom creates an empty waiting room. The first player to join becomes host.
func NewRoom(id string, rng RandomSource) *Room {
	if rng == nil {
		rng = utils.NewRandom()
	}
	return &Room{
		ID:              id,
		Status:          StatusWaiting,
		Players:         make([]*Player, 0, utils.MaxPlayers),
		ActiveColors:    []Color{},
		RollStats:       make(map[Color]*RollStat),
		PendingRequests: make(map[string]string),
		rng:             rng,
	}
}

// Apply dispatches a decoded client command sent by connID.
func (r *Room) Apply(connID string, cmd Command) ([]Effect, error) {
	switch c := cmd.(type) {
	case JoinRoom:
		return r.Join(connID, c.Name)
	case HandleJoinRequest:
		return r.ResolveJoinRequest(connID, c.RequesterID, c.Accepted, c.CurrentGameState)
	case KickPlayer:
		return r.Kick(connID, c.TargetID)
	case StartGame:
		return r.Start(connID)
	case RestartGame:
		return r.Restart(connID)
	case RollDice:
		return r.RollDice(c.Color)
	case PassTurn:
		return r.PassTurn()
	case MoveToken:
		return r.MoveToken(c)
	case SendInteraction:
		return r.SendInteraction(c)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
}

// Empty reports whether no seated player is online.
func (r *Room) Empty() bool {
	for _, p := range r.Players {
		if p.Online {
			return false
		}
	}
	return true
}

func (r *Room) findPlayer(connID string) (int, *Player) {
	for i, p := range r.Players {
		if p.ID == connID {
			return i, p
		}
	}
	return -1, nil
}

func (r *Room) playerByColor(c Color) *Player {
	for _, p := range r.Players {
		if p.Color == c {
			return p
		}
	}
	return nil
}

func (r *Room) full() bool {
	return len(r.Players) >= utils.MaxPlayers
}

// nextFreeColor returns the first unused color in assignment order.
func (r *Room) nextFreeColor() (Color, bool) {
	for _, c := range AssignmentOrder {
		if r.playerByColor(c) == nil {
			return c, true
		}
	}
	return "", false
}

func (r *Room) recomputeActiveColors() {
	colors := make([]Color, 0, len(r.Players))
	for _, p := range r.Players {
		colors = append(colors, p.Color)
	}
	SortByTurnOrder(colors)
	r.ActiveColors = colors
}

func (r *Room) activeColorsCopy() []Color {
	return append([]Color{}, r.ActiveColors...)
}

func (r *Room) rosterEvent() UpdatePlayersEvent {
	return UpdatePlayersEvent{
		MessageType: "updatePlayers",
		Players:     copyPlayers(r.Players),
		HostID:      r.Host,
	}
}

// RoomSnapshot is a read-only copy of a room's state.
type RoomSnapshot struct {
	ID              string             `json:"id"`
	Status          RoomStatus         `json:"status"`
	HostID          string             `json:"hostId"`
	Players         []Player           `json:"players"`
	ActiveColors    []Color            `json:"activeColors"`
	TurnColor       Color              `json:"turnColor,omitempty"`
	RollStats       map[Color]RollStat `json:"rollStats"`
	PendingRequests map[string]string  `json:"pendingRequests"`
}

// Snapshot copies the room's state.
func (r *Room) Snapshot() RoomSnapshot {
	stats := make(map[Color]RollStat, len(r.RollStats))
	for c, s := range r.RollStats {
		stats[c] = *s
	}
	pending := make(map[string]string, len(r.PendingRequests))
	for id, name := range r.PendingRequests {
		pending[id] = name
	}
	return RoomSnapshot{
		ID:              r.ID,
		Status:          r.Status,
		HostID:          r.Host,
		Players:         copyPlayers(r.Players),
		ActiveColors:    r.activeColorsCopy(),
		TurnColor:       r.TurnColor,
		RollStats:       stats,
		PendingRequests: pending,
	}
}

// RoomSummary is what the room listing shows per room.
type RoomSummary struct {
	Players int        `json:"players"`
	Online  int        `json:"online"`
	Status  RoomStatus `json:"status"`
}

// Summary counts seats and online players.
func (r *Room) Summary() RoomSummary {
	online := 0
	for _, p := range r.Players {
		if p.Online {
			online++
		}
	}
	return RoomSummary{Players: len(r.Players), Online: online, Status: r.Status}
}
