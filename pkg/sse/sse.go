// Package sse streams published events to Server-Sent Events clients. It is
// the plain-HTTP counterpart of the websocket hub for clients that cannot
// hold a websocket open.
//
//	broker := sse.NewBroker()
//	router.Get("/sse/tasks", "sse.tasks", broker.ServeHTTP)
//
//	broker.Publish("task.updated", task)
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/projectdesk/projectdesk/pkg/logger"
)

const (
	heartbeat  = 25 * time.Second
	sendBuffer = 32
)

// Stream represents an active SSE connection to one client.
type Stream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// NewStream sets the event-stream headers. It returns nil if the
// ResponseWriter, or any writer it wraps, cannot flush.
func NewStream(w http.ResponseWriter) *Stream {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		return nil
	}

	return &Stream{w: w, rc: rc}
}

// Send writes a named event whose data is already JSON.
func (s *Stream) Send(event string, payload []byte) error {
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return s.rc.Flush()
}

// Comment writes an SSE comment, used as a keepalive.
func (s *Stream) Comment(msg string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", msg); err != nil {
		return err
	}
	return s.rc.Flush()
}

type message struct {
	event   string
	payload []byte
}

// Broker fans published events out to every connected stream.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan message]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan message]struct{})}
}

// Publish queues the event for every subscriber. A subscriber whose buffer
// is full misses the event.
func (b *Broker) Publish(eventType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Error("sse: encode event", "type", eventType, "error", err)
		return
	}
	msg := message{event: eventType, payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
			logger.Warn("sse: slow subscriber, event dropped", "type", eventType)
		}
	}
}

// Subscribers returns the number of connected streams.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Broker) subscribe() chan message {
	ch := make(chan message, sendBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) unsubscribe(ch chan message) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// ServeHTTP streams events until the client goes away.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stream := NewStream(w)
	if stream == nil {
		logger.Error("sse: response writer cannot flush", "path", r.URL.Path)
		return
	}

	ch := b.subscribe()
	defer b.unsubscribe(ch)

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			if err := stream.Send(msg.event, msg.payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := stream.Comment("ping"); err != nil {
				return
			}
		}
	}
}
