// File: bollywood/actor.go
package bollywood

// Actor is anything that processes messages delivered by the Engine.
// Receive is never called concurrently for the same actor.
type Actor interface {
	Receive(ctx Context)
}

// Producer creates a fresh actor instance when it is spawned.
type Producer func() Actor

// Props describes how to build an actor.
type Props struct {
	producer    Producer
	mailboxSize int
}

// NewProps wraps a producer with the default mailbox size.
func NewProps(producer Producer) *Props {
	return &Props{producer: producer, mailboxSize: defaultMailboxSize}
}

// WithMailboxSize overrides the mailbox capacity of the spawned actor.
func (p *Props) WithMailboxSize(size int) *Props {
	if size > 0 {
		p.mailboxSize = size
	}
	return p
}

// Produce creates a new actor instance.
func (p *Props) Produce() Actor {
	return p.producer()
}

// PID identifies a spawned actor.
type PID struct {
	ID string
}

func (pid *PID) String() string {
	if pid == nil {
		return "<nil>"
	}
	return pid.ID
}

// Started is the first message every actor receives.
type Started struct{}

// Stopping is delivered when the actor has been asked to stop.
type Stopping struct{}

// Stopped is the last message an actor receives.
type Stopped struct{}
