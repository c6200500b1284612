// internal/fortuna/events.go
package fortuna

import (
	"fmt"
	"sort"
)

// Event names accepted by AddEventListener.
const (
	// EventProgress fires on every entropy submission while the generator
	// is not yet ready, with the current GetProgress value.
	EventProgress = "progress"
	// EventSeeded fires once per transition out of the NOT_READY state,
	// with the accumulated strength in bits.
	EventSeeded = "seeded"
)

// AddEventListener registers fn for the named event and returns a handle
// for RemoveEventListener. Listeners are invoked synchronously during the
// AddEntropy call that triggers them and must not call back into the
// generator's mutating operations.
func (g *Generator) AddEventListener(name string, fn func(float64)) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	set, ok := g.callbacks[name]
	if !ok {
		return 0, fmt.Errorf("fortuna: unknown event %q", name)
	}
	h := g.nextHandle
	g.nextHandle++
	set[h] = fn
	return h, nil
}

// RemoveEventListener unregisters the listener registered under handle.
// Removing during dispatch only affects subsequent events: the dispatch in
// flight runs over a snapshot taken before any listener was invoked.
func (g *Generator) RemoveEventListener(name string, handle int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if set, ok := g.callbacks[name]; ok {
		delete(set, handle)
	}
}

// fireEvent invokes the listeners registered for name at snapshot time, in
// registration order. Must be called without g.mu held.
func (g *Generator) fireEvent(name string, arg float64) {
	g.mu.Lock()
	set := g.callbacks[name]
	handles := make([]int, 0, len(set))
	for h := range set {
		handles = append(handles, h)
	}
	sort.Ints(handles)
	snapshot := make([]func(float64), len(handles))
	for i, h := range handles {
		snapshot[i] = set[h]
	}
	g.mu.Unlock()

	for _, fn := range snapshot {
		fn(arg)
	}
}
