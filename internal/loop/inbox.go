package loop

import (
	"sync"

	"github.com/Garsondee/Memory-Duel/internal/scene"
)

// Inbox moves events from background goroutines to the frame goroutine. It
// is the protocol.Handler of the match channel.
type Inbox struct {
	ch        chan scene.Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewInbox creates an inbox buffering up to size events.
func NewInbox(size int) *Inbox {
	return &Inbox{
		ch:   make(chan scene.Event, size),
		done: make(chan struct{}),
	}
}

// Push queues ev, blocking while the buffer is full. It returns false once
// the inbox is closed.
func (in *Inbox) Push(ev scene.Event) bool {
	select {
	case <-in.done:
		return false
	default:
	}
	select {
	case in.ch <- ev:
		return true
	case <-in.done:
		return false
	}
}

// HandleMessage implements protocol.Handler.
func (in *Inbox) HandleMessage(raw []byte) {
	in.Push(scene.Inbound{Raw: raw})
}

// HandleError implements protocol.Handler.
func (in *Inbox) HandleError(err error) {
	in.Push(scene.TransportDown{Err: err})
}

// Drain hands every queued event to fn without blocking and returns how many
// there were.
func (in *Inbox) Drain(fn func(scene.Event)) int {
	n := 0
	for {
		select {
		case ev := <-in.ch:
			fn(ev)
			n++
		default:
			return n
		}
	}
}

// Len returns the number of queued events.
func (in *Inbox) Len() int { return len(in.ch) }

// Close releases goroutines blocked in Push.
func (in *Inbox) Close() {
	in.closeOnce.Do(func() { close(in.done) })
}
