// File: game/room_actor_test.go
package game

import (
	"testing"
	"time"

	"github.com/lguibr/ludo/bollywood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRoomActorTest(t *testing.T) (*bollywood.Engine, *bollywood.PID, *mockActor, *mockActor) {
	engine := bollywood.NewEngine()
	t.Cleanup(func() { engine.Shutdown(time.Second) })
	managerPID, manager := spawnMock(t, engine)
	broadcasterPID, broadcaster := spawnMock(t, engine)
	roomPID := engine.Spawn(bollywood.NewProps(NewRoomActorProducer("A1", managerPID, broadcasterPID, newScriptedRandom())))
	require.NotNil(t, roomPID)
	return engine, roomPID, manager, broadcaster
}

func roomState(t *testing.T, engine *bollywood.Engine, pid *bollywood.PID) RoomSnapshot {
	t.Helper()
	reply, err := engine.Ask(pid, GetRoomState{}, time.Second)
	require.NoError(t, err)
	return reply.(RoomSnapshot)
}

func TestRoomActor_TranslatesEffects(t *testing.T) {
	engine, roomPID, manager, broadcaster := setupRoomActorTest(t)

	engine.Send(roomPID, ClientCommand{ConnID: "alice", Command: JoinRoom{ID: "A1", Name: "Alice"}}, nil)

	snap := roomState(t, engine, roomPID)
	assert.Equal(t, "alice", snap.HostID)

	waitFor(t, time.Second, func() bool { return len(broadcaster.Received()) >= 4 })
	received := broadcaster.Received()
	assert.IsType(t, bollywood.Started{}, received[0])
	assert.Equal(t, JoinGroup{Group: "A1", ID: "alice"}, received[1])
	send, ok := received[2].(SendToClient)
	require.True(t, ok)
	assert.Equal(t, "alice", send.ID)
	assert.Equal(t, "joined", send.Event.EventType())
	bcast, ok := received[3].(BroadcastToGroup)
	require.True(t, ok)
	assert.Equal(t, "A1", bcast.Group)
	assert.Equal(t, "updatePlayers", bcast.Event.EventType())

	waitFor(t, time.Second, func() bool {
		_, ok := findMessage[RoomUpdated](manager)
		return ok
	})
	update, _ := findMessage[RoomUpdated](manager)
	assert.Equal(t, RoomSummary{Players: 1, Online: 1, Status: StatusWaiting}, update.Summary)
	assert.Equal(t, roomPID.ID, update.RoomPID.ID)
}

func TestRoomActor_IgnoresDisconnectOfStranger(t *testing.T) {
	engine, roomPID, manager, _ := setupRoomActorTest(t)
	engine.Send(roomPID, ClientCommand{ConnID: "alice", Command: JoinRoom{ID: "A1", Name: "Alice"}}, nil)
	engine.Send(roomPID, ClientDisconnected{ConnID: "stranger"}, nil)

	snap := roomState(t, engine, roomPID)
	assert.True(t, snap.Players[0].Online)
	_, empty := findMessage[RoomEmpty](manager)
	assert.False(t, empty)
}

func TestRoomActor_ClosesWhenLastPlayerLeaves(t *testing.T) {
	engine, roomPID, manager, broadcaster := setupRoomActorTest(t)
	engine.Send(roomPID, ClientCommand{ConnID: "alice", Command: JoinRoom{ID: "A1", Name: "Alice"}}, nil)
	engine.Send(roomPID, ClientDisconnected{ConnID: "alice"}, nil)

	waitFor(t, time.Second, func() bool {
		_, ok := findMessage[RoomEmpty](manager)
		return ok
	})
	empty, _ := findMessage[RoomEmpty](manager)
	assert.Equal(t, "A1", empty.RoomID)

	waitFor(t, time.Second, func() bool {
		_, ok := findMessage[DropGroup](broadcaster)
		return ok
	})

	// a join that reaches the closed room goes back to the manager
	engine.Send(roomPID, ClientCommand{ConnID: "bob", Command: JoinRoom{ID: "A1", Name: "Bob"}}, nil)
	engine.Send(roomPID, ClientCommand{ConnID: "bob", Command: PassTurn{Room: "A1"}}, nil)
	waitFor(t, time.Second, func() bool {
		_, ok := findMessage[RedirectCommand](manager)
		return ok
	})
	redirect, _ := findMessage[RedirectCommand](manager)
	assert.Equal(t, RedirectCommand{ConnID: "bob", Command: JoinRoom{ID: "A1", Name: "Bob"}}, redirect)

	snap := roomState(t, engine, roomPID)
	assert.Len(t, snap.Players, 1, "a closed room accepts nobody")

	engine.Send(roomPID, CloseRoom{}, nil)
	waitFor(t, time.Second, func() bool { return !engine.Running(roomPID) })
}
