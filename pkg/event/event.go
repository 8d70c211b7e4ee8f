// Package event provides a small in-process event dispatcher.
package event

import (
	"sync"
)

// Event is a named payload fired by a service.
type Event struct {
	Name    string
	Payload any
}

// Handler receives a fired event.
type Handler func(Event)

// Firer is the publishing half of a Dispatcher.
type Firer interface {
	Fire(name string, payload any)
}

// Dispatcher routes events to the handlers listening on their name.
// The wildcard name "*" receives every event.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

// Fire dispatches an event synchronously to all registered listeners.
func (d *Dispatcher) Fire(name string, payload any) {
	ev := Event{Name: name, Payload: payload}
	for _, h := range d.listeners(name) {
		h(ev)
	}
}

// FireAsync dispatches the event to all listeners concurrently.
// It returns immediately without waiting for handlers to complete.
func (d *Dispatcher) FireAsync(name string, payload any) {
	ev := Event{Name: name, Payload: payload}
	for _, h := range d.listeners(name) {
		go h(ev)
	}
}

func (d *Dispatcher) listeners(name string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hs := make([]Handler, 0, len(d.handlers[name])+len(d.handlers["*"]))
	hs = append(hs, d.handlers[name]...)
	if name != "*" {
		hs = append(hs, d.handlers["*"]...)
	}
	return hs
}

// Flush removes all listeners.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = map[string][]Handler{}
}
