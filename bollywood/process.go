// File: bollywood/process.go
package bollywood

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// process is the running instance of an actor: its mailbox and run loop.
type process struct {
	engine  *Engine
	pid     *PID
	actor   Actor
	mailbox *mailbox
	props   *Props
	stopCh  chan struct{}
	stopped atomic.Bool
}

func newProcess(engine *Engine, pid *PID, props *Props) *process {
	return &process{
		engine:  engine,
		pid:     pid,
		props:   props,
		mailbox: newMailbox(props.mailboxSize),
		stopCh:  make(chan struct{}),
	}
}

func isSystemMessage(message interface{}) bool {
	switch message.(type) {
	case Started, Stopping, Stopped:
		return true
	}
	return false
}

func (p *process) sendMessage(envelope *messageEnvelope) {
	if p.stopped.Load() && !isSystemMessage(envelope.Message) {
		return
	}
	if !p.mailbox.push(envelope) {
		log.Warn().Str("module", "bollywood").Str("pid", p.pid.ID).
			Str("message", fmt.Sprintf("%T", envelope.Message)).
			Msg("mailbox full, dropping message")
	}
}

// closeStop closes stopCh once.
func (p *process) closeStop() {
	select {
	case <-p.stopCh:
	default:
		close(p.stopCh)
	}
}

func (p *process) run() {
	defer func() {
		p.stopped.Store(true)
		if p.actor != nil {
			p.invokeReceive(&messageEnvelope{Message: Stopped{}})
		}
		p.engine.remove(p.pid)
	}()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "bollywood").Str("pid", p.pid.ID).
				Interface("panic", r).Str("stack", string(debug.Stack())).
				Msg("actor run loop panicked")
			p.stopped.Store(true)
			p.closeStop()
		}
	}()

	p.actor = p.props.Produce()
	if p.actor == nil {
		panic(fmt.Sprintf("actor %s producer returned nil actor", p.pid.ID))
	}

	for {
		select {
		case <-p.stopCh:
			if p.stopped.CompareAndSwap(false, true) {
				p.invokeReceive(&messageEnvelope{Message: Stopping{}})
			}
			return

		case envelope := <-p.mailbox.ch:
			switch envelope.Message.(type) {
			case Stopping:
				if p.stopped.CompareAndSwap(false, true) {
					p.invokeReceive(envelope)
					p.closeStop()
				}
			case Stopped:
				// delivered by the deferred cleanup only
			default:
				if p.stopped.Load() {
					continue
				}
				p.invokeReceive(envelope)
			}
		}
	}
}

// invokeReceive calls the actor's Receive, recovering from panics so one bad
// message does not take the actor down.
func (p *process) invokeReceive(envelope *messageEnvelope) {
	ctx := &context{
		engine:    p.engine,
		self:      p.pid,
		sender:    envelope.Sender,
		message:   envelope.Message,
		requestID: envelope.RequestID,
		replyCh:   envelope.ReplyCh,
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "bollywood").Str("pid", p.pid.ID).
				Str("message", fmt.Sprintf("%T", envelope.Message)).
				Interface("panic", r).Str("stack", string(debug.Stack())).
				Msg("actor panicked during Receive")
			if ctx.requestID != "" {
				ctx.Reply(fmt.Errorf("actor %s panicked: %v", p.pid.ID, r))
			}
		}
	}()
	p.actor.Receive(ctx)
}
