// Package event provides the completion signal a primitive sets when its
// work is done.
package event

import (
	"context"
	"sync"
)

// State is an event state.
type State int

// Event states.
const (
	NotReady State = iota
	Ready
)

// String returns the state name.
func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "not-ready"
}

// Event is a one-shot completion signal. The producer sets it to Ready once;
// consumers poll State or block in Wait. Reset re-arms it.
type Event struct {
	mu    sync.Mutex
	state State
	done  chan struct{}
}

// New returns an event in the NotReady state.
func New() *Event {
	return &Event{done: make(chan struct{})}
}

// State returns the current state.
func (e *Event) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetState transitions the event. Setting Ready twice is a no-op; setting
// NotReady is equivalent to Reset.
func (e *Event) SetState(s State) {
	if s == NotReady {
		e.Reset()
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Ready {
		return
	}
	e.state = Ready
	close(e.done)
}

// Reset returns the event to NotReady so it can signal another completion.
func (e *Event) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == NotReady {
		return
	}
	e.state = NotReady
	e.done = make(chan struct{})
}

// Done returns a channel closed when the event becomes Ready.
func (e *Event) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Wait blocks until the event is Ready or ctx is done.
func (e *Event) Wait(ctx context.Context) error {
	select {
	case <-e.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
