// File: game/test_utils_test.go
package game

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/lguibr/ludo/bollywood"
	"github.com/stretchr/testify/require"
)

// scriptedRandom replays values in order, reduced modulo n. Once the script
// runs out it returns 0.
type scriptedRandom struct {
	values []int
	calls  []int
}

func newScriptedRandom(values ...int) *scriptedRandom {
	return &scriptedRandom{values: values}
}

func (s *scriptedRandom) Intn(n int) int {
	s.calls = append(s.calls, n)
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v % n
}

func (s *scriptedRandom) push(values ...int) {
	s.values = append(s.values, values...)
}

// eventsOf returns the events carried by effects of the given kind.
func eventsOf(effects []Effect, kind EffectKind) []Event {
	var out []Event
	for _, e := range effects {
		if e.Kind == kind && e.Event != nil {
			out = append(out, e.Event)
		}
	}
	return out
}

// eventTypes lists messageTypes of every event-bearing effect, in order.
func eventTypes(effects []Effect) []string {
	var out []string
	for _, e := range effects {
		if e.Event != nil {
			out = append(out, e.Event.EventType())
		}
	}
	return out
}

func mustJoin(t *testing.T, r *Room, connID, name string) *Player {
	t.Helper()
	_, err := r.Join(connID, name)
	require.NoError(t, err)
	_, p := r.findPlayer(connID)
	require.NotNil(t, p, "player %s should be seated", connID)
	return p
}

// mockConn records frames written by the broadcaster.
type mockConn struct {
	mu      sync.Mutex
	frames  [][]byte
	closed  bool
	failErr error
}

func (c *mockConn) WriteFrame(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failErr != nil {
		return c.failErr
	}
	c.frames = append(c.frames, append([]byte(nil), frame...))
	return nil
}

func (c *mockConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *mockConn) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.frames))
	copy(out, c.frames)
	return out
}

func (c *mockConn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// waitFor polls cond until it holds or timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msgAndArgs ...interface{}) {
	t.Helper()
	require.Eventually(t, cond, timeout, 5*time.Millisecond, msgAndArgs...)
}

// mockActor records every message it receives.
type mockActor struct {
	mu       sync.Mutex
	received []interface{}
}

func (a *mockActor) Receive(ctx bollywood.Context) {
	a.mu.Lock()
	a.received = append(a.received, ctx.Message())
	a.mu.Unlock()
}

func (a *mockActor) Received() []interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	msgs := make([]interface{}, len(a.received))
	copy(msgs, a.received)
	return msgs
}

// findMessage returns the first recorded message of type T.
func findMessage[T any](a *mockActor) (T, bool) {
	for _, msg := range a.Received() {
		if typed, ok := msg.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

func spawnMock(t *testing.T, engine *bollywood.Engine) (*bollywood.PID, *mockActor) {
	t.Helper()
	mock := &mockActor{}
	pid := engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return mock }))
	require.NotNil(t, pid)
	return pid, mock
}

// frameTypes decodes the messageType of every frame written to conn.
func frameTypes(t *testing.T, conn *mockConn) []string {
	t.Helper()
	var out []string
	for _, frame := range conn.Frames() {
		var header MessageHeader
		require.NoError(t, json.Unmarshal(frame, &header))
		out = append(out, header.MessageType)
	}
	return out
}

// lastFrame decodes the last frame of the given type into v.
func lastFrame(t *testing.T, conn *mockConn, messageType string, v interface{}) bool {
	t.Helper()
	frames := conn.Frames()
	for i := len(frames) - 1; i >= 0; i-- {
		var header MessageHeader
		require.NoError(t, json.Unmarshal(frames[i], &header))
		if header.MessageType == messageType {
			require.NoError(t, json.Unmarshal(frames[i], v))
			return true
		}
	}
	return false
}

func hasFrame(t *testing.T, conn *mockConn, messageType string) bool {
	t.Helper()
	for _, mt := range frameTypes(t, conn) {
		if mt == messageType {
			return true
		}
	}
	return false
}
