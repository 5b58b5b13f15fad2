// File: game/room_removal.go
package game

import "fmt"

// Kick removes targetID from the room. Only the host may kick, and not itself.
func (r *Room) Kick(hostID, targetID string) ([]Effect, error) {
	if hostID != r.Host {
		return nil, fmt.Errorf("kick in %s: %w", r.ID, ErrUnauthorized)
	}
	if targetID == r.Host {
		return nil, fmt.Errorf("host kicking itself in %s: %w", r.ID, ErrUnauthorized)
	}
	idx, target := r.findPlayer(targetID)
	if target == nil {
		return nil, fmt.Errorf("kick unknown player %s: %w", targetID, ErrStaleAction)
	}

	var effects []Effect
	if r.Status == StatusPlaying && r.TurnColor == target.Color && len(r.ActiveColors) > 1 {
		r.TurnColor = NextColor(r.ActiveColors, r.TurnColor)
		effects = append(effects, toRoom(TurnChangedEvent{MessageType: "turnChanged", Color: r.TurnColor}))
	}

	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	delete(r.RollStats, target.Color)

	if r.Status == StatusPlaying && len(r.Players) == 2 {
		if ev, ok := r.migrateEndgameColor(); ok {
			effects = append(effects, toRoom(ev))
		}
	}
	r.recomputeActiveColors()

	effects = append(effects,
		toConn(targetID, KickedOutEvent{MessageType: "kickedOut"}),
		removeFromGroup(targetID),
		toRoom(r.rosterEvent()),
		toRoom(PlayerKickedEvent{
			MessageType:  "playerKicked",
			Color:        target.Color,
			ActiveColors: r.activeColorsCopy(),
		}),
	)
	return effects, nil
}

// migrateEndgameColor moves the non-host of a two-player game to the seat
// opposite the host. It reports false when no move is needed.
func (r *Room) migrateEndgameColor() (MigrateColorEvent, bool) {
	_, host := r.findPlayer(r.Host)
	if host == nil {
		return MigrateColorEvent{}, false
	}
	var other *Player
	for _, p := range r.Players {
		if p != host {
			other = p
		}
	}
	if other == nil {
		return MigrateColorEvent{}, false
	}

	oldColor, newColor := other.Color, OppositeColor(host.Color)
	if oldColor == newColor {
		return MigrateColorEvent{}, false
	}

	if stat, ok := r.RollStats[oldColor]; ok {
		r.RollStats[newColor] = stat
		delete(r.RollStats, oldColor)
	}
	if r.TurnColor == oldColor {
		r.TurnColor = newColor
	}
	other.Color = newColor

	return MigrateColorEvent{MessageType: "migrateColor", OldColor: oldColor, NewColor: newColor}, true
}

// Disconnect marks connID offline and discards any join request it had
// queued. Host passes to the first online player. Unlike Kick, it never
// triggers the endgame color migration.
func (r *Room) Disconnect(connID string) ([]Effect, error) {
	delete(r.PendingRequests, connID)

	_, p := r.findPlayer(connID)
	if p == nil || !p.Online {
		return nil, nil
	}
	p.Online = false

	effects := []Effect{toRoom(PlayerStatusEvent{
		MessageType: "playerStatus",
		Color:       p.Color,
		Status:      playerStatusOffline,
	})}

	if r.Empty() {
		return effects, nil
	}

	if r.Host == connID {
		for _, candidate := range r.Players {
			if candidate.Online {
				r.Host = candidate.ID
				break
			}
		}
		effects = append(effects, toRoom(r.rosterEvent()))
	}
	return effects, nil
}

// Has reports whether connID is seated or waiting for approval in the room.
func (r *Room) Has(connID string) bool {
	if _, pending := r.PendingRequests[connID]; pending {
		return true
	}
	_, p := r.findPlayer(connID)
	return p != nil
}
