// Package events provides a transport-agnostic publish/subscribe registry
// decoupling raw push-transport events from interested consumers.
package events

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Handler consumes one event payload. Payloads are raw JSON so the registry
// stays agnostic of entity shapes.
type Handler func(payload json.RawMessage)

type subscription struct {
	id      uint64
	handler Handler
}

// Registry dispatches published events to subscribed handlers in
// registration order. A handler that panics is logged and isolated; it never
// prevents the remaining handlers from running.
type Registry struct {
	mu   sync.Mutex
	seq  uint64
	subs map[string][]subscription
	log  *zap.SugaredLogger
}

func NewRegistry(log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Registry{subs: make(map[string][]subscription), log: log}
}

// Subscribe registers handler under event and returns an unsubscribe
// capability that removes exactly this registration. Calling the returned
// function more than once is a no-op after the first call.
func (r *Registry) Subscribe(event string, handler Handler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	id := r.seq
	r.subs[event] = append(r.subs[event], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { r.unsubscribe(event, id) })
	}
}

func (r *Registry) unsubscribe(event string, id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.subs[event]
	for i, s := range subs {
		if s.id == id {
			r.subs[event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(r.subs[event]) == 0 {
		delete(r.subs, event)
	}
}

// Publish invokes every handler currently registered for event, in
// registration order. Handlers registered during dispatch do not receive the
// in-flight payload.
func (r *Registry) Publish(event string, payload json.RawMessage) {
	r.mu.Lock()
	subs := make([]subscription, len(r.subs[event]))
	copy(subs, r.subs[event])
	r.mu.Unlock()

	for _, s := range subs {
		r.dispatch(event, s.handler, payload)
	}
}

func (r *Registry) dispatch(event string, handler Handler, payload json.RawMessage) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Errorf("[events][dispatch] handler panic event=%s err=%v", event, rec)
		}
	}()
	handler(payload)
}
