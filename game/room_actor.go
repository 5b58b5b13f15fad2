// File: game/room_actor.go
package game

import (
	"errors"
	"fmt"

	"github.com/lguibr/ludo/bollywood"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RoomActor owns one Room. Its mailbox serialises every command for the
// room, so each command is applied and its effects handed to the
// broadcaster before the next one starts.
type RoomActor struct {
	room           *Room
	managerPID     *bollywood.PID
	broadcasterPID *bollywood.PID
	selfPID        *bollywood.PID
	logger         zerolog.Logger
	closed         bool
}

// NewRoomActorProducer creates a producer for a RoomActor. A nil rng gives
// the room its own seeded generator.
func NewRoomActorProducer(roomID string, managerPID, broadcasterPID *bollywood.PID, rng RandomSource) bollywood.Producer {
	return func() bollywood.Actor {
		return &RoomActor{
			room:           NewRoom(roomID, rng),
			managerPID:     managerPID,
			broadcasterPID: broadcasterPID,
			logger:         log.With().Str("module", "game.room").Str("room_id", roomID).Logger(),
		}
	}
}

// Receive is the main message handler for the RoomActor.
func (a *RoomActor) Receive(ctx bollywood.Context) {
	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		a.logger.Info().Str("pid", a.selfPID.String()).Msg("room created")

	case ClientCommand:
		a.handleCommand(ctx, msg)

	case ClientDisconnected:
		if a.closed || !a.room.Has(msg.ConnID) {
			return
		}
		effects, err := a.room.Disconnect(msg.ConnID)
		a.logRejection(msg.ConnID, "disconnect", err)
		a.applyEffects(ctx, effects)
		a.afterChange(ctx)

	case GetRoomState:
		ctx.Reply(a.room.Snapshot())

	case CloseRoom:
		ctx.Engine().Stop(a.selfPID)

	case bollywood.Stopping:
		a.logger.Info().Str("pid", a.selfPID.String()).Msg("room stopping")

	case bollywood.Stopped:

	default:
		a.logger.Warn().Str("type", fmt.Sprintf("%T", msg)).Msg("unknown message")
		if ctx.RequestID() != "" {
			ctx.Reply(fmt.Errorf("unknown message type: %T", msg))
		}
	}
}

func (a *RoomActor) handleCommand(ctx bollywood.Context, msg ClientCommand) {
	if a.closed {
		// This room is gone. A join is handed back so the manager can
		// create a fresh room under the same id.
		if _, isJoin := msg.Command.(JoinRoom); isJoin {
			ctx.Engine().Send(a.managerPID, RedirectCommand{ConnID: msg.ConnID, Command: msg.Command}, a.selfPID)
		}
		return
	}

	effects, err := a.room.Apply(msg.ConnID, msg.Command)
	a.logRejection(msg.ConnID, fmt.Sprintf("%T", msg.Command), err)
	a.applyEffects(ctx, effects)
	a.afterChange(ctx)
}

func (a *RoomActor) logRejection(connID, action string, err error) {
	if err == nil {
		return
	}
	level := zerolog.DebugLevel
	if !errors.Is(err, ErrRoomFull) && !errors.Is(err, ErrUnauthorized) &&
		!errors.Is(err, ErrStaleAction) && !errors.Is(err, ErrInvalidRoomID) {
		level = zerolog.WarnLevel
	}
	a.logger.WithLevel(level).Err(err).Str("conn_id", connID).Str("action", action).Msg("command rejected")
}

// applyEffects hands the room's effects to the broadcaster in order.
func (a *RoomActor) applyEffects(ctx bollywood.Context, effects []Effect) {
	if a.broadcasterPID == nil {
		return
	}
	group := a.room.ID
	for _, e := range effects {
		var out interface{}
		switch e.Kind {
		case EmitToRoom:
			out = BroadcastToGroup{Group: group, Event: e.Event}
		case EmitToConn:
			out = SendToClient{ID: e.ConnID, Event: e.Event}
		case AddToGroup:
			out = JoinGroup{Group: group, ID: e.ConnID}
		case RemoveFromGroup:
			out = LeaveGroup{Group: group, ID: e.ConnID}
		default:
			a.logger.Error().Str("kind", e.Kind.String()).Msg("unknown effect kind")
			continue
		}
		ctx.Engine().Send(a.broadcasterPID, out, a.selfPID)
	}
}

// afterChange reports the room's new summary, or closes the room once no
// player is online.
func (a *RoomActor) afterChange(ctx bollywood.Context) {
	if a.room.Empty() {
		a.closed = true
		a.logger.Info().Msg("no player online, closing room")
		if a.broadcasterPID != nil {
			ctx.Engine().Send(a.broadcasterPID, DropGroup{Group: a.room.ID}, a.selfPID)
		}
		if a.managerPID != nil {
			ctx.Engine().Send(a.managerPID, RoomEmpty{RoomID: a.room.ID, RoomPID: a.selfPID}, a.selfPID)
		}
		return
	}
	if a.managerPID != nil {
		ctx.Engine().Send(a.managerPID, RoomUpdated{RoomID: a.room.ID, RoomPID: a.selfPID, Summary: a.room.Summary()}, a.selfPID)
	}
}
