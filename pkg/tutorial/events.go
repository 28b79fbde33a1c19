package tutorial

import (
	"context"
	"sync"
)

// EventKind classifies narration progress reported by the engine.
type EventKind int

const (
	EventStarted EventKind = iota
	EventDone
	EventStopped
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventDone:
		return "done"
	case EventStopped:
		return "stopped"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is a narration callback, tagged with the session token of the
// utterance it belongs to.
type Event struct {
	Token uint64
	Kind  EventKind
	Err   error
}

// eventQueue is an unbounded FIFO. Engine callbacks push from any goroutine;
// the UI loop pops. It never blocks a pusher, so an engine that fires
// callbacks synchronously from Speak cannot deadlock the loop.
type eventQueue struct {
	mu     sync.Mutex
	items  []Event
	notify chan struct{}
	done   chan struct{}
	closed bool
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (q *eventQueue) push(ev Event) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *eventQueue) pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Event{}, false
	}
	ev := q.items[0]
	q.items = q.items[1:]
	return ev, true
}

func (q *eventQueue) drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// wait blocks until an event is available, the queue closes or ctx ends.
func (q *eventQueue) wait(ctx context.Context) (Event, bool) {
	for {
		if ev, ok := q.pop(); ok {
			return ev, true
		}
		select {
		case <-q.notify:
		case <-q.done:
			return Event{}, false
		case <-ctx.Done():
			return Event{}, false
		}
	}
}

func (q *eventQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.items = nil
	close(q.done)
}
