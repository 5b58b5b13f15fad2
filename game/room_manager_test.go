// File: game/room_manager_test.go
package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/lguibr/ludo/bollywood"
	"github.com/lguibr/ludo/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type managerFixture struct {
	engine         *bollywood.Engine
	managerPID     *bollywood.PID
	broadcasterPID *bollywood.PID
	manager        *RoomManagerActor
}

// --- Test Setup ---
func setupRoomManagerTest(t *testing.T, cfg utils.Config) *managerFixture {
	engine := bollywood.NewEngine()
	t.Cleanup(func() { engine.Shutdown(time.Second) })

	broadcasterPID := engine.Spawn(bollywood.NewProps(NewBroadcasterProducer()))
	require.NotNil(t, broadcasterPID)

	producer := NewRoomManagerProducer(engine, cfg, broadcasterPID)
	actorInstance := producer().(*RoomManagerActor)
	actorInstance.newRandom = func() RandomSource { return newScriptedRandom() }

	managerPID := engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return actorInstance }))
	require.NotNil(t, managerPID, "RoomManager PID should not be nil")

	return &managerFixture{
		engine:         engine,
		managerPID:     managerPID,
		broadcasterPID: broadcasterPID,
		manager:        actorInstance,
	}
}

func (f *managerFixture) connect(id string) *mockConn {
	conn := &mockConn{}
	f.engine.Send(f.broadcasterPID, AddClient{ID: id, Conn: conn}, nil)
	return conn
}

func (f *managerFixture) send(connID string, cmd Command) {
	f.engine.Send(f.managerPID, ClientCommand{ConnID: connID, Command: cmd}, nil)
}

func (f *managerFixture) disconnect(connID string) {
	f.engine.Send(f.managerPID, ClientDisconnected{ConnID: connID}, nil)
	f.engine.Send(f.broadcasterPID, RemoveClient{ID: connID}, nil)
}

func (f *managerFixture) room(id string) (*RoomInfo, bool) {
	f.manager.mu.RLock()
	defer f.manager.mu.RUnlock()
	info, ok := f.manager.rooms[id]
	if !ok {
		return nil, false
	}
	copied := *info
	return &copied, true
}

func (f *managerFixture) roomCount() int {
	f.manager.mu.RLock()
	defer f.manager.mu.RUnlock()
	return len(f.manager.rooms)
}

// --- Tests ---

func TestRoomManager_StartsEmpty(t *testing.T) {
	f := setupRoomManagerTest(t, utils.DefaultConfig())

	reply, err := f.engine.Ask(f.managerPID, GetRoomListRequest{}, time.Second)
	require.NoError(t, err)
	assert.Empty(t, reply.(RoomListResponse).Rooms, "Room manager should start with no rooms")
}

func TestRoomManager_JoinCreatesOneRoomPerID(t *testing.T) {
	f := setupRoomManagerTest(t, utils.DefaultConfig())
	alice := f.connect("alice")
	bob := f.connect("bob")

	f.send("alice", JoinRoom{ID: "A1", Name: "Alice"})
	f.send("bob", JoinRoom{ID: "A1", Name: "Bob"})

	waitFor(t, time.Second, func() bool { return hasFrame(t, bob, "joined") })
	assert.Equal(t, 1, f.roomCount())

	var joined JoinedEvent
	require.True(t, lastFrame(t, alice, "joined", &joined))
	assert.Equal(t, JoinedEvent{MessageType: "joined", Color: Blue, RoomID: "A1", IsHost: true, Name: "Alice"}, joined)
	require.True(t, lastFrame(t, bob, "joined", &joined))
	assert.Equal(t, Green, joined.Color)
	assert.False(t, joined.IsHost)

	waitFor(t, time.Second, func() bool {
		var roster UpdatePlayersEvent
		return lastFrame(t, alice, "updatePlayers", &roster) && len(roster.Players) == 2
	}, "the host sees the second player join")
}

func TestRoomManager_DropsCommandsForUnknownRoom(t *testing.T) {
	f := setupRoomManagerTest(t, utils.DefaultConfig())
	alice := f.connect("alice")

	f.send("alice", StartGame{Room: "nowhere"})
	f.send("alice", RollDice{Room: "nowhere", Color: Blue})

	reply, err := f.engine.Ask(f.managerPID, GetRoomListRequest{}, time.Second)
	require.NoError(t, err)
	assert.Empty(t, reply.(RoomListResponse).Rooms)
	assert.Empty(t, alice.Frames())
}

func TestRoomManager_RejectsRoomsBeyondMax(t *testing.T) {
	cfg := utils.DefaultConfig()
	cfg.MaxRooms = 1
	f := setupRoomManagerTest(t, cfg)
	f.connect("alice")
	bob := f.connect("bob")

	f.send("alice", JoinRoom{ID: "A1", Name: "Alice"})
	f.send("bob", JoinRoom{ID: "B2", Name: "Bob"})

	waitFor(t, time.Second, func() bool { return hasFrame(t, bob, "errorMsg") })
	var msg ErrorMsgEvent
	require.True(t, lastFrame(t, bob, "errorMsg", &msg))
	assert.Equal(t, "Server is full!", msg.Message)
	assert.Equal(t, 1, f.roomCount())

	// existing rooms still accept players
	f.send("bob", JoinRoom{ID: "A1", Name: "Bob"})
	waitFor(t, time.Second, func() bool { return hasFrame(t, bob, "joined") })
}

func TestRoomManager_RemovesEmptyRoom(t *testing.T) {
	f := setupRoomManagerTest(t, utils.DefaultConfig())
	alice := f.connect("alice")
	f.send("alice", JoinRoom{ID: "A1", Name: "Alice"})
	waitFor(t, time.Second, func() bool { return hasFrame(t, alice, "joined") })

	info, ok := f.room("A1")
	require.True(t, ok)
	roomPID := info.PID

	f.disconnect("alice")

	waitFor(t, time.Second, func() bool { return f.roomCount() == 0 }, "room should be removed")
	waitFor(t, time.Second, func() bool { return !f.engine.Running(roomPID) }, "room actor should stop")
}

func TestRoomManager_JoinAfterDestructionCreatesFreshRoom(t *testing.T) {
	f := setupRoomManagerTest(t, utils.DefaultConfig())
	alice := f.connect("alice")
	f.send("alice", JoinRoom{ID: "A1", Name: "Alice"})
	waitFor(t, time.Second, func() bool { return hasFrame(t, alice, "joined") })
	first, _ := f.room("A1")

	bob := f.connect("bob")
	f.disconnect("alice")
	// may reach the old room before it is forgotten; it is redirected then
	f.send("bob", JoinRoom{ID: "A1", Name: "Bob"})

	waitFor(t, time.Second, func() bool { return hasFrame(t, bob, "joined") })
	var joined JoinedEvent
	require.True(t, lastFrame(t, bob, "joined", &joined))
	assert.True(t, joined.IsHost, "first player of the fresh room is host")
	assert.Equal(t, Blue, joined.Color)

	second, ok := f.room("A1")
	require.True(t, ok)
	assert.NotEqual(t, first.PID.ID, second.PID.ID)
}

func TestRoomManager_RoomListing(t *testing.T) {
	f := setupRoomManagerTest(t, utils.DefaultConfig())
	f.connect("alice")
	f.connect("bob")
	f.connect("carol")
	f.send("alice", JoinRoom{ID: "A1", Name: "Alice"})
	f.send("bob", JoinRoom{ID: "A1", Name: "Bob"})
	f.send("carol", JoinRoom{ID: "C3", Name: "Carol"})
	f.send("alice", StartGame{Room: "A1"})

	want := map[string]RoomSummary{
		"A1": {Players: 2, Online: 2, Status: StatusPlaying},
		"C3": {Players: 1, Online: 1, Status: StatusWaiting},
	}
	waitFor(t, time.Second, func() bool {
		reply, err := f.engine.Ask(f.managerPID, GetRoomListRequest{}, time.Second)
		if err != nil {
			return false
		}
		rooms := reply.(RoomListResponse).Rooms
		return len(rooms) == 2 && rooms["A1"] == want["A1"] && rooms["C3"] == want["C3"]
	})
}

func TestRoomManager_TurnScenario(t *testing.T) {
	f := setupRoomManagerTest(t, utils.DefaultConfig())
	alice := f.connect("alice")
	bob := f.connect("bob")

	f.send("alice", JoinRoom{ID: "A1", Name: "Alice"})
	f.send("bob", JoinRoom{ID: "A1", Name: "Bob"})
	f.send("alice", StartGame{Room: "A1"})
	f.send("bob", RollDice{Room: "A1", Color: Green})
	f.send("alice", PassTurn{Room: "A1"})
	f.send("bob", RollDice{Room: "A1", Color: Green})

	waitFor(t, time.Second, func() bool { return hasFrame(t, alice, "diceRolled") && hasFrame(t, bob, "diceRolled") })

	var started GameStartedEvent
	require.True(t, lastFrame(t, bob, "gameStarted", &started))
	assert.Equal(t, Blue, started.TurnColor)

	types := frameTypes(t, alice)
	rolls := 0
	for _, mt := range types {
		if mt == "diceRolled" {
			rolls++
		}
	}
	assert.Equal(t, 1, rolls, "the out of turn roll emits nothing")

	var rolled DiceRolledEvent
	require.True(t, lastFrame(t, bob, "diceRolled", &rolled))
	assert.Equal(t, Green, rolled.Color)
}

func TestRoomManager_DisconnectReachesAllRooms(t *testing.T) {
	f := setupRoomManagerTest(t, utils.DefaultConfig())
	f.connect("alice")
	bob := f.connect("bob")
	carol := f.connect("carol")
	f.send("alice", JoinRoom{ID: "A1", Name: "Alice"})
	f.send("bob", JoinRoom{ID: "A1", Name: "Bob"})
	f.send("carol", JoinRoom{ID: "C3", Name: "Carol"})
	waitFor(t, time.Second, func() bool { return hasFrame(t, carol, "joined") && hasFrame(t, bob, "joined") })

	f.disconnect("alice")

	waitFor(t, time.Second, func() bool { return hasFrame(t, bob, "playerStatus") })
	waitFor(t, time.Second, func() bool {
		var roster UpdatePlayersEvent
		return lastFrame(t, bob, "updatePlayers", &roster) && roster.HostID == "bob"
	}, "host passes to bob")
	assert.False(t, hasFrame(t, carol, "playerStatus"))
}

func TestRoomManager_DropsRedirectForDisconnectedConnection(t *testing.T) {
	f := setupRoomManagerTest(t, utils.DefaultConfig())
	f.connect("ghost")
	bob := f.connect("bob")

	// the closing room's redirect lands after the connection already left
	f.disconnect("ghost")
	f.engine.Send(f.managerPID, RedirectCommand{ConnID: "ghost", Command: JoinRoom{ID: "G1", Name: "Ghost"}}, nil)
	f.engine.Send(f.managerPID, RedirectCommand{ConnID: "bob", Command: JoinRoom{ID: "B1", Name: "Bob"}}, nil)

	waitFor(t, time.Second, func() bool { return hasFrame(t, bob, "joined") })
	reply, err := f.engine.Ask(f.managerPID, GetRoomListRequest{}, time.Second)
	require.NoError(t, err)
	rooms := reply.(RoomListResponse).Rooms
	assert.NotContains(t, rooms, "G1", "no room is created for a connection that left")
	assert.Contains(t, rooms, "B1")
}

func TestRoomManager_ForgetsOldestDisconnects(t *testing.T) {
	m := NewRoomManagerProducer(nil, utils.DefaultConfig(), nil)().(*RoomManagerActor)
	for i := 0; i <= goneMemory; i++ {
		m.rememberGone(fmt.Sprintf("conn-%d", i))
	}
	m.rememberGone("conn-1")

	assert.Len(t, m.gone, goneMemory)
	assert.Len(t, m.goneOrder, goneMemory)
	assert.NotContains(t, m.gone, "conn-0")
	assert.Contains(t, m.gone, fmt.Sprintf("conn-%d", goneMemory))
}
