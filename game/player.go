// File: game/player.go
package game

// Player is one seated connection. Offline players keep their seat.
type Player struct {
	ID     string `json:"id"`
	Color  Color  `json:"color"`
	Online bool   `json:"online"`
	Name   string `json:"name"`
}

func copyPlayers(players []*Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
