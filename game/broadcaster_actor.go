// File: game/broadcaster_actor.go
package game

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/lguibr/ludo/bollywood"
	"github.com/rs/zerolog/log"
)

// ClientConnection is the transport handle of one client.
type ClientConnection interface {
	WriteFrame(frame []byte) error
	Close() error
}

// BroadcasterActor is the connection registry. It owns every live client
// connection and the named groups (one per room) used for fan-out.
type BroadcasterActor struct {
	clients  map[string]ClientConnection    // conn id -> connection
	groups   map[string]map[string]struct{} // group -> member conn ids
	memberOf map[string]map[string]struct{} // conn id -> groups
	mu       sync.RWMutex                   // Protects the maps for test inspection
	selfPID  *bollywood.PID
}

// NewBroadcasterProducer creates a producer for BroadcasterActor.
func NewBroadcasterProducer() bollywood.Producer {
	return func() bollywood.Actor {
		return &BroadcasterActor{
			clients:  make(map[string]ClientConnection),
			groups:   make(map[string]map[string]struct{}),
			memberOf: make(map[string]map[string]struct{}),
		}
	}
}

// Receive handles messages for the BroadcasterActor.
func (a *BroadcasterActor) Receive(ctx bollywood.Context) {
	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		log.Debug().Str("module", "game.broadcaster").Str("pid", a.selfPID.String()).Msg("started")

	case AddClient:
		if msg.ID == "" || msg.Conn == nil {
			return
		}
		a.mu.Lock()
		a.clients[msg.ID] = msg.Conn
		a.mu.Unlock()

	case RemoveClient:
		a.forget(msg.ID)

	case JoinGroup:
		a.joinGroup(msg.Group, msg.ID)

	case LeaveGroup:
		a.leaveGroup(msg.Group, msg.ID)

	case DropGroup:
		a.mu.Lock()
		for id := range a.groups[msg.Group] {
			delete(a.memberOf[id], msg.Group)
		}
		delete(a.groups, msg.Group)
		a.mu.Unlock()

	case SendToClient:
		a.sendTo(msg.ID, msg.Event)

	case BroadcastToGroup:
		a.broadcast(msg.Group, msg.Event)

	case GetClientCount:
		a.mu.RLock()
		count := len(a.clients)
		a.mu.RUnlock()
		ctx.Reply(count)

	case GetGroupMembers:
		ctx.Reply(a.members(msg.Group))

	case bollywood.Stopping:
		log.Info().Str("module", "game.broadcaster").Str("pid", a.selfPID.String()).Msg("stopping, closing remaining connections")
		a.closeAllConnections()

	case bollywood.Stopped:

	default:
		log.Warn().Str("module", "game.broadcaster").Str("type", fmt.Sprintf("%T", msg)).Msg("unknown message")
		if ctx.RequestID() != "" {
			ctx.Reply(fmt.Errorf("unknown message type: %T", msg))
		}
	}
}

func (a *BroadcasterActor) joinGroup(group, id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.clients[id]; !ok {
		// the connection went away before the room seated it
		return
	}
	if a.groups[group] == nil {
		a.groups[group] = make(map[string]struct{})
	}
	a.groups[group][id] = struct{}{}
	if a.memberOf[id] == nil {
		a.memberOf[id] = make(map[string]struct{})
	}
	a.memberOf[id][group] = struct{}{}
}

func (a *BroadcasterActor) leaveGroup(group, id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if members, ok := a.groups[group]; ok {
		delete(members, id)
		if len(members) == 0 {
			delete(a.groups, group)
		}
	}
	delete(a.memberOf[id], group)
}

// forget removes a client from the registry and from every group.
func (a *BroadcasterActor) forget(id string) ClientConnection {
	a.mu.Lock()
	defer a.mu.Unlock()
	conn := a.clients[id]
	delete(a.clients, id)
	for group := range a.memberOf[id] {
		if members, ok := a.groups[group]; ok {
			delete(members, id)
			if len(members) == 0 {
				delete(a.groups, group)
			}
		}
	}
	delete(a.memberOf, id)
	return conn
}

func (a *BroadcasterActor) members(group string) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	ids := make([]string, 0, len(a.groups[group]))
	for id := range a.groups[group] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (a *BroadcasterActor) sendTo(id string, ev Event) {
	a.mu.RLock()
	conn, ok := a.clients[id]
	a.mu.RUnlock()
	if !ok {
		log.Debug().Str("module", "game.broadcaster").Str("conn_id", id).Msg("dropping event for unknown connection")
		return
	}
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Str("module", "game.broadcaster").Err(err).Str("event", ev.EventType()).Msg("failed to marshal event")
		return
	}
	if err := conn.WriteFrame(frame); err != nil {
		a.dropBroken(id, err)
	}
}

// broadcast marshals ev once and writes it to every member of group.
func (a *BroadcasterActor) broadcast(group string, ev Event) {
	ids := a.members(group)
	if len(ids) == 0 {
		return
	}
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Str("module", "game.broadcaster").Err(err).Str("event", ev.EventType()).Msg("failed to marshal event")
		return
	}

	a.mu.RLock()
	targets := make(map[string]ClientConnection, len(ids))
	for _, id := range ids {
		if conn, ok := a.clients[id]; ok {
			targets[id] = conn
		}
	}
	a.mu.RUnlock()

	for id, conn := range targets {
		if err := conn.WriteFrame(frame); err != nil {
			a.dropBroken(id, err)
		}
	}
}

// dropBroken closes a connection whose write failed. Its read loop then ends
// and the usual disconnect path reaches the rooms.
func (a *BroadcasterActor) dropBroken(id string, cause error) {
	log.Warn().Str("module", "game.broadcaster").Str("conn_id", id).Err(cause).Msg("write failed, closing connection")
	if conn := a.forget(id); conn != nil {
		_ = conn.Close()
	}
}

func (a *BroadcasterActor) closeAllConnections() {
	a.mu.Lock()
	clientsToClose := make([]ClientConnection, 0, len(a.clients))
	for _, conn := range a.clients {
		clientsToClose = append(clientsToClose, conn)
	}
	a.clients = make(map[string]ClientConnection)
	a.groups = make(map[string]map[string]struct{})
	a.memberOf = make(map[string]map[string]struct{})
	a.mu.Unlock()

	for _, conn := range clientsToClose {
		_ = conn.Close()
	}
}
