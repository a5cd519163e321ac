// ABOUTME: Listener registry for handle events
// ABOUTME: Delivers events to a snapshot of subscribers
package media

import (
	"slices"
	"sync"
)

// Emitter fans events out to subscribed listeners
type Emitter struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
}

// Subscribe registers l. The returned func is safe to call more than once.
func (e *Emitter) Subscribe(l Listener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[int]Listener)
	}
	id := e.nextID
	e.nextID++
	e.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}
}

// Emit delivers ev to every listener registered at the time of the call
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	snapshot := make([]Listener, 0, len(ids))
	// Registration order
	slices.Sort(ids)
	for _, id := range ids {
		snapshot = append(snapshot, e.listeners[id])
	}
	e.mu.Unlock()

	for _, l := range snapshot {
		l(ev)
	}
}

// Len returns the number of registered listeners
func (e *Emitter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}
