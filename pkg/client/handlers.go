package client

import (
	"sync"

	"github.com/DoyleJ11/sheet-sync/pkg/event"
)

type handler struct {
	fn func(event.Event)
}

// registry is the per-session handler table. It survives reconnects.
type registry struct {
	mu       sync.RWMutex
	handlers map[event.Kind][]*handler
}

// On registers fn for kind and returns a func that removes exactly fn.
func (r *registry) On(kind event.Kind, fn func(event.Event)) func() {
	h := &handler{fn: fn}
	r.mu.Lock()
	if r.handlers == nil {
		r.handlers = make(map[event.Kind][]*handler)
	}
	r.handlers[kind] = append(r.handlers[kind], h)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			hs := r.handlers[kind]
			for i, x := range hs {
				if x == h {
					r.handlers[kind] = append(hs[:i:i], hs[i+1:]...)
					break
				}
			}
			if len(r.handlers[kind]) == 0 {
				delete(r.handlers, kind)
			}
		})
	}
}

// Off removes every handler for kind.
func (r *registry) Off(kind event.Kind) {
	r.mu.Lock()
	delete(r.handlers, kind)
	r.mu.Unlock()
}

// dispatch runs the handlers registered for ev.Kind in registration order.
// Kinds without handlers are ignored.
func (r *registry) dispatch(ev event.Event) {
	r.mu.RLock()
	hs := r.handlers[ev.Kind]
	r.mu.RUnlock()
	for _, h := range hs {
		h.fn(ev)
	}
}
