// File: game/effect.go
package game

// EffectKind tells the room actor what to do with an Effect.
type EffectKind int

const (
	// EmitToRoom broadcasts Event to the room's group.
	EmitToRoom EffectKind = iota
	// EmitToConn sends Event to ConnID only.
	EmitToConn
	// AddToGroup puts ConnID into the room's group.
	AddToGroup
	// RemoveFromGroup takes ConnID out of the room's group.
	RemoveFromGroup
)

func (k EffectKind) String() string {
	switch k {
	case EmitToRoom:
		return "emitToRoom"
	case EmitToConn:
		return "emitToConn"
	case AddToGroup:
		return "addToGroup"
	case RemoveFromGroup:
		return "removeFromGroup"
	}
	return "unknown"
}

// Effect is one observable output of a room operation. Effects are applied
// in the order they are returned.
type Effect struct {
	Kind   EffectKind
	ConnID string
	Event  Event
}

func toRoom(ev Event) Effect { return Effect{Kind: EmitToRoom, Event: ev} }

func toConn(connID string, ev Event) Effect {
	return Effect{Kind: EmitToConn, ConnID: connID, Event: ev}
}

func addToGroup(connID string) Effect { return Effect{Kind: AddToGroup, ConnID: connID} }

func removeFromGroup(connID string) Effect {
	return Effect{Kind: RemoveFromGroup, ConnID: connID}
}
