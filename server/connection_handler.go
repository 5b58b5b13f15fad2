// File: server/connection_handler.go
package server

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lguibr/ludo/bollywood"
	"github.com/lguibr/ludo/game"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/websocket"
)

// errReadLoopExited is sent to the actor when its read loop ends.
var errReadLoopExited = errors.New("read loop exited")

// InternalReadLoopMsg carries one raw frame from the read loop to the actor.
type InternalReadLoopMsg struct {
	Payload []byte
}

// ConnectionHandlerActor manages a single WebSocket connection lifecycle:
// it registers the connection, decodes inbound frames and reports the
// disconnect exactly once.
type ConnectionHandlerActor struct {
	conn           *websocket.Conn
	engine         *bollywood.Engine
	roomManagerPID *bollywood.PID
	broadcasterPID *bollywood.PID
	readTimeout    time.Duration
	writeTimeout   time.Duration
	selfPID        *bollywood.PID
	connID         string
	logger         zerolog.Logger
	stopReadLoop   chan struct{} // Closed to ask the read loop to stop
	readLoopExited chan struct{} // Closed by the read loop when it returns
	readLoopActive bool
	done           chan struct{} // Closed once the actor has stopped
	closeOnce      sync.Once
	disconnected   bool
}

// ConnectionHandlerArgs holds arguments for creating the actor.
type ConnectionHandlerArgs struct {
	Conn           *websocket.Conn
	Engine         *bollywood.Engine
	RoomManagerPID *bollywood.PID
	BroadcasterPID *bollywood.PID
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	Done           chan struct{}
}

// NewConnectionHandlerProducer creates a producer for ConnectionHandlerActor.
func NewConnectionHandlerProducer(args ConnectionHandlerArgs) bollywood.Producer {
	return func() bollywood.Actor {
		addr := "unknown"
		if args.Conn != nil && args.Conn.Request() != nil {
			addr = args.Conn.Request().RemoteAddr
		}
		connID := uuid.NewString()
		return &ConnectionHandlerActor{
			conn:           args.Conn,
			engine:         args.Engine,
			roomManagerPID: args.RoomManagerPID,
			broadcasterPID: args.BroadcasterPID,
			readTimeout:    args.ReadTimeout,
			writeTimeout:   args.WriteTimeout,
			connID:         connID,
			logger:         log.With().Str("module", "server.conn").Str("conn_id", connID).Str("remote", addr).Logger(),
			stopReadLoop:   make(chan struct{}),
			readLoopExited: make(chan struct{}),
			done:           args.Done,
		}
	}
}

// Receive handles messages for the ConnectionHandlerActor.
func (a *ConnectionHandlerActor) Receive(ctx bollywood.Context) {
	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		if a.conn == nil || a.roomManagerPID == nil || a.broadcasterPID == nil {
			a.logger.Error().Msg("missing connection or actor handles, stopping")
			a.cleanup(fmt.Errorf("connection handler misconfigured"))
			return
		}
		a.logger.Info().Msg("client connected")
		a.engine.Send(a.broadcasterPID, game.AddClient{ID: a.connID, Conn: newWSConnection(a.conn, a.writeTimeout)}, a.selfPID)
		a.engine.Send(a.broadcasterPID, game.SendToClient{ID: a.connID, Event: game.NewConnectedEvent(a.connID)}, a.selfPID)
		a.readLoopActive = true
		go a.readLoop(a.engine, a.selfPID)

	case InternalReadLoopMsg:
		a.handleFrame(msg.Payload)

	case error:
		a.cleanup(msg)

	case bollywood.Stopping:
		a.signalAndWaitForReadLoop()
		a.performCleanupActions()

	case bollywood.Stopped:
		a.closeOnce.Do(func() {
			if a.done != nil {
				close(a.done)
			}
		})

	default:
		a.logger.Warn().Str("type", fmt.Sprintf("%T", msg)).Msg("unexpected message")
	}
}

// handleFrame decodes one inbound frame and routes it to the room manager.
// Frames that do not decode are dropped.
func (a *ConnectionHandlerActor) handleFrame(payload []byte) {
	cmd, err := game.DecodeCommand(payload)
	if err != nil {
		a.logger.Debug().Err(err).Msg("dropping frame")
		return
	}
	a.engine.Send(a.roomManagerPID, game.ClientCommand{ConnID: a.connID, Command: cmd}, a.selfPID)
}

// readLoop handles reading messages from the WebSocket connection.
func (a *ConnectionHandlerActor) readLoop(engine *bollywood.Engine, selfPID *bollywood.PID) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Interface("panic", r).Str("stack", string(debug.Stack())).Msg("read loop panicked")
		}
		close(a.readLoopExited)
		engine.Send(selfPID, errReadLoopExited, nil)
	}()

	for {
		select {
		case <-a.stopReadLoop:
			return
		default:
		}

		var frame []byte
		if a.readTimeout > 0 {
			_ = a.conn.SetReadDeadline(time.Now().Add(a.readTimeout))
		}
		if err := websocket.Message.Receive(a.conn, &frame); err != nil {
			select {
			case <-a.stopReadLoop:
			default:
				a.logger.Debug().Err(err).Msg("read failed, closing")
			}
			return
		}
		engine.Send(selfPID, InternalReadLoopMsg{Payload: frame}, nil)
	}
}

// signalAndWaitForReadLoop tells the readLoop goroutine to exit and waits for confirmation.
func (a *ConnectionHandlerActor) signalAndWaitForReadLoop() {
	select {
	case <-a.stopReadLoop:
		return
	default:
		close(a.stopReadLoop)
	}

	// Closing the connection unblocks a pending Receive.
	if a.conn != nil {
		_ = a.conn.Close()
	}
	if !a.readLoopActive {
		return
	}

	select {
	case <-a.readLoopExited:
	case <-time.After(2 * time.Second):
		a.logger.Warn().Msg("timeout waiting for read loop to exit")
	}
}

// cleanup is called when the read loop exits or start-up fails.
func (a *ConnectionHandlerActor) cleanup(reason error) {
	if !errors.Is(reason, errReadLoopExited) {
		a.logger.Warn().Err(reason).Msg("closing connection")
	}
	a.signalAndWaitForReadLoop()
	a.performCleanupActions()
	if a.engine != nil && a.selfPID != nil {
		a.engine.Stop(a.selfPID)
	}
}

// performCleanupActions reports the disconnect once and closes the socket.
func (a *ConnectionHandlerActor) performCleanupActions() {
	if !a.disconnected && a.readLoopActive {
		a.disconnected = true
		a.logger.Info().Msg("client disconnected")
		a.engine.Send(a.roomManagerPID, game.ClientDisconnected{ConnID: a.connID}, a.selfPID)
		a.engine.Send(a.broadcasterPID, game.RemoveClient{ID: a.connID}, a.selfPID)
	}
	if a.conn != nil {
		_ = a.conn.Close()
	}
}
