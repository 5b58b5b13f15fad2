// File: game/room_join.go
package game

import (
	"encoding/json"
	"fmt"

	"github.com/lguibr/ludo/utils"
)

// Join seats connID in a waiting room, queues it for host approval in a
// playing room, or re-acknowledges an already seated connection.
func (r *Room) Join(connID, name string) ([]Effect, error) {
	if name == "" {
		name = utils.DefaultPlayerName
	}

	if _, p := r.findPlayer(connID); p != nil {
		p.Online = true
		return []Effect{
			addToGroup(connID),
			toConn(connID, r.joinedEvent(p)),
			toRoom(r.rosterEvent()),
		}, nil
	}

	if r.full() {
		return []Effect{
			toConn(connID, ErrorMsgEvent{MessageType: "errorMsg", Message: msgRoomFull}),
		}, fmt.Errorf("join %s: %w", r.ID, ErrRoomFull)
	}

	if r.Status == StatusPlaying {
		r.PendingRequests[connID] = name
		return []Effect{
			toConn(connID, WaitingForHostApprovalEvent{MessageType: "waitingForHostApproval"}),
			toConn(r.Host, JoinRequestEvent{
				MessageType:   "joinRequest",
				RequesterID:   connID,
				RequesterName: name,
			}),
		}, nil
	}

	p := r.seat(connID, name)
	if r.Host == "" {
		r.Host = connID
	}
	return []Effect{
		addToGroup(connID),
		toConn(connID, r.joinedEvent(p)),
		toRoom(r.rosterEvent()),
	}, nil
}

// ResolveJoinRequest is the host's answer to a queued mid-game join.
// The pending entry is discarded whatever the outcome.
func (r *Room) ResolveJoinRequest(hostID, requesterID string, accepted bool, gameState json.RawMessage) ([]Effect, error) {
	if hostID != r.Host {
		return nil, fmt.Errorf("resolve join request in %s: %w", r.ID, ErrUnauthorized)
	}
	name, pending := r.PendingRequests[requesterID]
	if !pending {
		return nil, fmt.Errorf("resolve join request for %s: %w", requesterID, ErrStaleAction)
	}
	delete(r.PendingRequests, requesterID)

	if _, p := r.findPlayer(requesterID); p != nil {
		return nil, fmt.Errorf("resolve join request for seated %s: %w", requesterID, ErrStaleAction)
	}

	if !accepted || r.full() {
		effects := []Effect{
			toConn(requesterID, ErrorMsgEvent{MessageType: "errorMsg", Message: msgJoinRejected}),
		}
		if accepted {
			return effects, fmt.Errorf("resolve join request in %s: %w", r.ID, ErrRoomFull)
		}
		return effects, nil
	}

	p := r.seat(requesterID, name)
	r.RollStats[p.Color] = r.freshRollStat()

	return []Effect{
		addToGroup(requesterID),
		toConn(requesterID, r.joinedEvent(p)),
		toRoom(r.rosterEvent()),
		toRoom(MidGameJoinEvent{
			MessageType:  "midGameJoin",
			ActiveColors: r.activeColorsCopy(),
			NewColor:     p.Color,
			TurnColor:    r.TurnColor,
			GameState:    gameState,
		}),
	}, nil
}

// seat appends a new online player with the next free color. Callers check
// capacity first.
func (r *Room) seat(connID, name string) *Player {
	color, _ := r.nextFreeColor()
	p := &Player{ID: connID, Color: color, Online: true, Name: name}
	r.Players = append(r.Players, p)
	r.recomputeActiveColors()
	return p
}

func (r *Room) joinedEvent(p *Player) JoinedEvent {
	return JoinedEvent{
		MessageType: "joined",
		Color:       p.Color,
		RoomID:      r.ID,
		IsHost:      p.ID == r.Host,
		Name:        p.Name,
	}
}
