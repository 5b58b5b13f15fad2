// File: game/room_manager.go
package game

import (
	"fmt"
	"sync"

	"github.com/lguibr/ludo/bollywood"
	"github.com/lguibr/ludo/utils"
	"github.com/rs/zerolog/log"
)

// RoomInfo holds information about a live room.
type RoomInfo struct {
	PID     *bollywood.PID
	Summary RoomSummary
}

// RoomManagerActor is the room store and event router. It creates a
// RoomActor on the first join for an unseen room id and forgets it once the
// room reports itself empty.
type RoomManagerActor struct {
	engine         *bollywood.Engine
	cfg            utils.Config
	broadcasterPID *bollywood.PID
	rooms          map[string]*RoomInfo // room id -> info
	mu             sync.RWMutex         // Protects rooms for test inspection
	selfPID        *bollywood.PID

	// newRandom gives each room its random source; nil means a seeded generator.
	newRandom func() RandomSource

	// gone remembers recently disconnected connections, oldest first, so a
	// join redirected by a closing room cannot seat a connection that left.
	gone      map[string]struct{}
	goneOrder []string
}

// goneMemory bounds how many disconnected ids the manager remembers. A
// redirect trails its connection's disconnect by a few mailbox hops.
const goneMemory = 4096

// NewRoomManagerProducer creates a producer for the RoomManagerActor.
func NewRoomManagerProducer(engine *bollywood.Engine, cfg utils.Config, broadcasterPID *bollywood.PID) bollywood.Producer {
	return func() bollywood.Actor {
		return &RoomManagerActor{
			engine:         engine,
			cfg:            cfg,
			broadcasterPID: broadcasterPID,
			rooms:          make(map[string]*RoomInfo),
			gone:           make(map[string]struct{}),
		}
	}
}

// Receive Method
func (a *RoomManagerActor) Receive(ctx bollywood.Context) {
	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		log.Info().Str("module", "game.manager").Str("pid", a.selfPID.String()).Int("max_rooms", a.cfg.MaxRooms).Msg("room manager started")

	case ClientCommand:
		a.route(msg.ConnID, msg.Command)

	case RedirectCommand:
		if _, left := a.gone[msg.ConnID]; left {
			log.Debug().Str("module", "game.manager").Str("conn_id", msg.ConnID).Msg("dropping redirect for disconnected connection")
			return
		}
		a.route(msg.ConnID, msg.Command)

	case ClientDisconnected:
		a.handleDisconnect(msg.ConnID)

	case RoomEmpty:
		a.handleRoomEmpty(msg)

	case RoomUpdated:
		a.mu.Lock()
		if info, ok := a.rooms[msg.RoomID]; ok && samePID(info.PID, msg.RoomPID) {
			info.Summary = msg.Summary
		}
		a.mu.Unlock()

	case GetRoomListRequest:
		a.handleGetRoomList(ctx)

	case bollywood.Stopping:
		log.Info().Str("module", "game.manager").Msg("stopping, shutting down all rooms")
		a.mu.Lock()
		pidsToStop := make([]*bollywood.PID, 0, len(a.rooms))
		for _, info := range a.rooms {
			pidsToStop = append(pidsToStop, info.PID)
		}
		a.rooms = make(map[string]*RoomInfo)
		a.mu.Unlock()
		for _, pid := range pidsToStop {
			a.engine.Stop(pid)
		}

	case bollywood.Stopped:
		log.Info().Str("module", "game.manager").Msg("room manager stopped")

	default:
		log.Warn().Str("module", "game.manager").Str("type", fmt.Sprintf("%T", msg)).Msg("unknown message")
		if ctx.RequestID() != "" {
			ctx.Reply(fmt.Errorf("unknown message type: %T", msg))
		}
	}
}

// route forwards a command to its room, creating the room for a join.
func (a *RoomManagerActor) route(connID string, cmd Command) {
	if cmd == nil {
		return
	}
	roomID := cmd.RoomID()

	a.mu.RLock()
	info, exists := a.rooms[roomID]
	count := len(a.rooms)
	a.mu.RUnlock()

	if !exists {
		if _, isJoin := cmd.(JoinRoom); !isJoin {
			log.Debug().Str("module", "game.manager").Str("room_id", roomID).Str("conn_id", connID).
				Str("command", fmt.Sprintf("%T", cmd)).Msg("dropping command for unknown room")
			return
		}
		if a.cfg.MaxRooms > 0 && count >= a.cfg.MaxRooms {
			log.Warn().Str("module", "game.manager").Str("room_id", roomID).Int("rooms", count).Msg("max rooms reached, rejecting join")
			if a.broadcasterPID != nil {
				a.engine.Send(a.broadcasterPID, SendToClient{
					ID:    connID,
					Event: ErrorMsgEvent{MessageType: "errorMsg", Message: msgServerFull},
				}, a.selfPID)
			}
			return
		}
		info = a.createRoom(roomID)
		if info == nil {
			return
		}
	}

	a.engine.Send(info.PID, ClientCommand{ConnID: connID, Command: cmd}, a.selfPID)
}

func (a *RoomManagerActor) createRoom(roomID string) *RoomInfo {
	var rng RandomSource
	if a.newRandom != nil {
		rng = a.newRandom()
	}
	pid := a.engine.Spawn(bollywood.NewProps(NewRoomActorProducer(roomID, a.selfPID, a.broadcasterPID, rng)))
	if pid == nil {
		log.Error().Str("module", "game.manager").Str("room_id", roomID).Msg("failed to spawn room actor")
		return nil
	}
	info := &RoomInfo{PID: pid, Summary: RoomSummary{Status: StatusWaiting}}
	a.mu.Lock()
	a.rooms[roomID] = info
	a.mu.Unlock()
	log.Info().Str("module", "game.manager").Str("room_id", roomID).Str("pid", pid.String()).Msg("room created")
	return info
}

// handleDisconnect fans a lost connection out to every room; each room
// checks its own membership and pending requests.
func (a *RoomManagerActor) handleDisconnect(connID string) {
	a.rememberGone(connID)

	a.mu.RLock()
	pids := make([]*bollywood.PID, 0, len(a.rooms))
	for _, info := range a.rooms {
		pids = append(pids, info.PID)
	}
	a.mu.RUnlock()

	for _, pid := range pids {
		a.engine.Send(pid, ClientDisconnected{ConnID: connID}, a.selfPID)
	}
}

func (a *RoomManagerActor) rememberGone(connID string) {
	if _, ok := a.gone[connID]; ok {
		return
	}
	a.gone[connID] = struct{}{}
	a.goneOrder = append(a.goneOrder, connID)
	if len(a.goneOrder) > goneMemory {
		delete(a.gone, a.goneOrder[0])
		a.goneOrder = a.goneOrder[1:]
	}
}

func (a *RoomManagerActor) handleRoomEmpty(msg RoomEmpty) {
	a.mu.Lock()
	info, exists := a.rooms[msg.RoomID]
	if !exists || !samePID(info.PID, msg.RoomPID) {
		// Already removed, ignore.
		a.mu.Unlock()
		return
	}
	delete(a.rooms, msg.RoomID)
	a.mu.Unlock()

	log.Info().Str("module", "game.manager").Str("room_id", msg.RoomID).Msg("room empty, removing")
	// CloseRoom queues behind every command already routed to the room.
	a.engine.Send(msg.RoomPID, CloseRoom{}, a.selfPID)
}

func (a *RoomManagerActor) handleGetRoomList(ctx bollywood.Context) {
	a.mu.RLock()
	rooms := make(map[string]RoomSummary, len(a.rooms))
	for id, info := range a.rooms {
		rooms[id] = info.Summary
	}
	a.mu.RUnlock()

	if ctx.RequestID() != "" {
		ctx.Reply(RoomListResponse{Rooms: rooms})
	} else {
		log.Warn().Str("module", "game.manager").Msg("GetRoomListRequest received without Ask")
	}
}

func samePID(a, b *bollywood.PID) bool {
	return a != nil && b != nil && a.ID == b.ID
}
