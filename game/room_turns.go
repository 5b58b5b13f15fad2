// File: game/room_turns.go
package game

import (
	"fmt"

	"github.com/lguibr/ludo/utils"
)

// Start moves the room to playing and hands the turn to the first active color.
func (r *Room) Start(connID string) ([]Effect, error) {
	if connID != r.Host {
		return nil, fmt.Errorf("start %s: %w", r.ID, ErrUnauthorized)
	}
	if len(r.Players) == 0 {
		return nil, fmt.Errorf("start %s with no players: %w", r.ID, ErrStaleAction)
	}
	r.Status = StatusPlaying
	r.recomputeActiveColors()
	r.resetTurns()
	return []Effect{toRoom(r.startedEvent("gameStarted"))}, nil
}

// Restart resets turn and pity timers of a running game.
func (r *Room) Restart(connID string) ([]Effect, error) {
	if connID != r.Host {
		return nil, fmt.Errorf("restart %s: %w", r.ID, ErrUnauthorized)
	}
	if r.Status != StatusPlaying || len(r.ActiveColors) == 0 {
		return nil, fmt.Errorf("restart %s before start: %w", r.ID, ErrStaleAction)
	}
	r.resetTurns()
	return []Effect{toRoom(r.startedEvent("gameRestarted"))}, nil
}

func (r *Room) resetTurns() {
	r.TurnColor = r.ActiveColors[0]
	r.RollStats = make(map[Color]*RollStat, len(r.ActiveColors))
	for _, c := range r.ActiveColors {
		r.RollStats[c] = r.freshRollStat()
	}
}

func (r *Room) startedEvent(messageType string) GameStartedEvent {
	return GameStartedEvent{
		MessageType:  messageType,
		ActiveColors: r.activeColorsCopy(),
		TurnColor:    r.TurnColor,
	}
}

// RollDice rolls for color if it holds the turn. Each miss brings the
// color's pity timer closer to a forced six.
func (r *Room) RollDice(color Color) ([]Effect, error) {
	if r.Status != StatusPlaying || color == "" || color != r.TurnColor {
		return nil, fmt.Errorf("roll for %q while %q holds the turn: %w", color, r.TurnColor, ErrStaleAction)
	}

	stat, ok := r.RollStats[color]
	if !ok {
		stat = r.freshRollStat()
		r.RollStats[color] = stat
	}

	stat.Count++
	roll := r.rng.Intn(utils.DiceFaces) + 1
	if stat.Count >= stat.Target {
		roll = utils.DiceFaces
	}
	if roll == utils.DiceFaces {
		stat.Count = 0
		stat.Target = r.randomTarget()
	}

	return []Effect{toRoom(DiceRolledEvent{MessageType: "diceRolled", Color: color, Roll: roll})}, nil
}

// PassTurn hands the turn to the next active color.
func (r *Room) PassTurn() ([]Effect, error) {
	if r.Status != StatusPlaying || len(r.ActiveColors) == 0 {
		return nil, fmt.Errorf("pass turn in %s: %w", r.ID, ErrStaleAction)
	}
	r.TurnColor = NextColor(r.ActiveColors, r.TurnColor)
	return []Effect{toRoom(TurnChangedEvent{MessageType: "turnChanged", Color: r.TurnColor})}, nil
}

// MoveToken relays a move to the room.
func (r *Room) MoveToken(m MoveToken) ([]Effect, error) {
	return []Effect{toRoom(TokenMovedEvent{
		MessageType: "tokenMoved",
		Color:       m.Color,
		Idx:         m.Idx,
		Roll:        m.Roll,
	})}, nil
}

// SendInteraction relays an emote or chat line to the room.
func (r *Room) SendInteraction(m SendInteraction) ([]Effect, error) {
	return []Effect{toRoom(ShowInteractionEvent{
		MessageType: "showInteraction",
		Color:       m.Color,
		Type:        m.Type,
		Content:     m.Content,
	})}, nil
}

func (r *Room) randomTarget() int {
	return utils.MinPityTarget + r.rng.Intn(utils.MaxPityTarget-utils.MinPityTarget+1)
}

func (r *Room) freshRollStat() *RollStat {
	return &RollStat{Count: 0, Target: r.randomTarget()}
}
