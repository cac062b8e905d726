// Package queue is the bounded, multi-producer single-consumer command
// queue that sits between order-entry ingress (concurrent FIX sessions
// posting to the HTTP handler) and the single goroutine driving
// matching.Engine. The original MPSCQueue/LockFreeQueue pair hand-rolled
// intrusive linked-list and ring-buffer variants over std::atomic; a
// buffered Go channel gives the same MPSC contract — concurrent
// senders, one drainer — with the runtime doing the synchronization.
package queue

import (
	"context"
	"errors"

	"limitless/fixcodec"
)

// ErrFull is returned by TrySubmit when the queue has no free slot.
var ErrFull = errors.New("queue: full")

// ErrClosed is returned by TrySubmit/Submit once Close has been
// called.
var ErrClosed = errors.New("queue: closed")

// Queue buffers fixcodec.Command values between producers and the one
// consumer that drains them into the engine.
type Queue struct {
	ch     chan fixcodec.Command
	closed chan struct{}
}

// New returns a Queue with room for capacity pending commands.
func New(capacity int) *Queue {
	return &Queue{
		ch:     make(chan fixcodec.Command, capacity),
		closed: make(chan struct{}),
	}
}

// TrySubmit enqueues cmd without blocking. It returns ErrFull if the
// queue is at capacity and ErrClosed once Close has been called —
// mirroring tryPush's non-blocking contract rather than ever stalling
// a producer.
func (q *Queue) TrySubmit(cmd fixcodec.Command) error {
	select {
	case <-q.closed:
		return ErrClosed
	default:
	}
	select {
	case q.ch <- cmd:
		return nil
	default:
		return ErrFull
	}
}

// Submit enqueues cmd, blocking until a slot is free, ctx is
// cancelled, or the queue is closed.
func (q *Queue) Submit(ctx context.Context, cmd fixcodec.Command) error {
	select {
	case <-q.closed:
		return ErrClosed
	default:
	}
	select {
	case q.ch <- cmd:
		return nil
	case <-q.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next blocks until a command is available, the queue is closed with
// nothing left to drain, or ctx is cancelled. The second return value
// is false once Close has been called and every command already
// buffered has been delivered, or when ctx is cancelled.
func (q *Queue) Next(ctx context.Context) (fixcodec.Command, bool) {
	select {
	case cmd := <-q.ch:
		return cmd, true
	case <-q.closed:
		// Closed: drain whatever is still buffered before reporting
		// empty, since q.ch itself is never closed (see Close).
		select {
		case cmd := <-q.ch:
			return cmd, true
		default:
			return fixcodec.Command{}, false
		}
	case <-ctx.Done():
		return fixcodec.Command{}, false
	}
}

// Len reports the number of commands currently buffered.
func (q *Queue) Len() int { return len(q.ch) }

// Cap reports the queue's fixed capacity.
func (q *Queue) Cap() int { return cap(q.ch) }

// Close stops further submissions by closing the closed signal,
// checked by TrySubmit/Submit/Next. It deliberately never closes the
// underlying command channel: a producer can be past the closed check
// and about to send when Close runs, and a send on a closed channel
// panics. Leaving q.ch open means that in-flight send either succeeds
// harmlessly or blocks briefly — never panics — and Next still drains
// it. Safe to call once; a second call panics, matching the
// close-signal's own channel-close contract.
func (q *Queue) Close() {
	close(q.closed)
}
