// File: bollywood/mailbox.go
package bollywood

const defaultMailboxSize = 1024

type messageEnvelope struct {
	Sender    *PID
	Message   interface{}
	RequestID string
	ReplyCh   chan interface{}
}

// mailbox is a bounded FIFO queue. Messages from one sender keep their order.
type mailbox struct {
	ch chan *messageEnvelope
}

func newMailbox(size int) *mailbox {
	if size <= 0 {
		size = defaultMailboxSize
	}
	return &mailbox{ch: make(chan *messageEnvelope, size)}
}

// push never blocks; it reports false when the mailbox is full.
func (m *mailbox) push(envelope *messageEnvelope) bool {
	select {
	case m.ch <- envelope:
		return true
	default:
		return false
	}
}

func (m *mailbox) len() int {
	return len(m.ch)
}
