// File: bollywood/engine.go
package bollywood

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrActorNotFound is returned by Ask when the target is not running.
	ErrActorNotFound = errors.New("actor not found")
	// ErrAskTimeout is returned by Ask when no reply arrives in time.
	ErrAskTimeout = errors.New("ask timed out")
	// ErrEngineStopping is returned by Ask once Shutdown has begun.
	ErrEngineStopping = errors.New("engine is stopping")
)

// Engine manages the lifecycle and message dispatching for actors.
type Engine struct {
	pidCounter     uint64
	requestCounter uint64
	actors         map[string]*process
	mu             sync.RWMutex
	stopping       atomic.Bool
}

// NewEngine creates a new actor engine.
func NewEngine() *Engine {
	return &Engine{
		actors: make(map[string]*process),
	}
}

func (e *Engine) nextPID() *PID {
	id := atomic.AddUint64(&e.pidCounter, 1)
	return &PID{ID: fmt.Sprintf("actor-%d", id)}
}

// Spawn creates and starts a new actor. It returns nil once the engine is shutting down.
func (e *Engine) Spawn(props *Props) *PID {
	if e.stopping.Load() {
		log.Warn().Str("module", "bollywood").Msg("engine is stopping, cannot spawn new actors")
		return nil
	}

	pid := e.nextPID()
	proc := newProcess(e, pid, props)

	e.mu.Lock()
	e.actors[pid.ID] = proc
	e.mu.Unlock()

	go proc.run()

	e.Send(pid, Started{}, nil)
	return pid
}

func (e *Engine) lookup(pid *PID) (*process, bool) {
	if pid == nil {
		return nil, false
	}
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()
	return proc, ok
}

// Send delivers a message to the actor identified by pid. Messages to unknown
// actors are dropped.
func (e *Engine) Send(pid *PID, message interface{}, sender *PID) {
	if e.stopping.Load() && !isSystemMessage(message) {
		return
	}
	if proc, ok := e.lookup(pid); ok {
		proc.sendMessage(&messageEnvelope{Sender: sender, Message: message})
	}
}

// Ask sends a message and waits for the actor to call ctx.Reply.
func (e *Engine) Ask(pid *PID, message interface{}, timeout time.Duration) (interface{}, error) {
	if e.stopping.Load() {
		return nil, ErrEngineStopping
	}
	proc, ok := e.lookup(pid)
	if !ok {
		return nil, fmt.Errorf("ask %s: %w", pid, ErrActorNotFound)
	}

	replyCh := make(chan interface{}, 1)
	requestID := fmt.Sprintf("req-%d", atomic.AddUint64(&e.requestCounter, 1))
	proc.sendMessage(&messageEnvelope{
		Message:   message,
		RequestID: requestID,
		ReplyCh:   replyCh,
	})

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case reply := <-replyCh:
		if err, isErr := reply.(error); isErr {
			return nil, err
		}
		return reply, nil
	case <-timer.C:
		return nil, fmt.Errorf("ask %s (%T): %w", pid, message, ErrAskTimeout)
	}
}

// Stop asks an actor to stop. The actor receives Stopping, then Stopped.
func (e *Engine) Stop(pid *PID) {
	proc, ok := e.lookup(pid)
	if !ok {
		return
	}
	proc.sendMessage(&messageEnvelope{Message: Stopping{}})
	// a full mailbox must not keep the actor alive
	proc.closeStop()
}

// Running reports whether the actor is still registered with the engine.
func (e *Engine) Running(pid *PID) bool {
	_, ok := e.lookup(pid)
	return ok
}

func (e *Engine) remove(pid *PID) {
	e.mu.Lock()
	delete(e.actors, pid.ID)
	e.mu.Unlock()
}

// Shutdown stops all actors and waits up to timeout for them to terminate.
func (e *Engine) Shutdown(timeout time.Duration) {
	if !e.stopping.CompareAndSwap(false, true) {
		return
	}

	e.mu.RLock()
	pids := make([]*PID, 0, len(e.actors))
	for _, proc := range e.actors {
		pids = append(pids, proc.pid)
	}
	e.mu.RUnlock()

	log.Info().Str("module", "bollywood").Int("actors", len(pids)).Msg("engine shutdown initiated")
	for _, pid := range pids {
		e.Stop(pid)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		e.mu.RLock()
		remaining := len(e.actors)
		e.mu.RUnlock()
		if remaining == 0 {
			log.Info().Str("module", "bollywood").Msg("engine shutdown complete")
			return
		}
		time.Sleep(20 * time.Millisecond)
	}

	e.mu.Lock()
	remaining := make([]string, 0, len(e.actors))
	for id := range e.actors {
		remaining = append(remaining, id)
	}
	e.actors = make(map[string]*process)
	e.mu.Unlock()
	log.Warn().Str("module", "bollywood").Strs("remaining", remaining).
		Msg("engine shutdown timed out, abandoning actors")
}
