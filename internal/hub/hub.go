// Package hub is the process-wide event channel. A single goroutine owns the
// room membership table, so publishes to one room reach every member in the
// order they were made.
package hub

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/DoyleJ11/sheet-sync/internal/room"
	"github.com/DoyleJ11/sheet-sync/pkg/event"
)

type Msg interface{ isHubMsg() }

type Join struct {
	ClientID string
	Rooms    []room.Room
	Outbox   chan event.Event // where this client wants to receive events
}

type Leave struct{ ClientID string }

type Publish struct {
	Room  room.Room
	Event event.Event
}

// GetStats reflects internal state without data races.
type GetStats struct {
	Reply chan Stats
}

type Shutdown struct{}

func (Join) isHubMsg()     {}
func (Leave) isHubMsg()    {}
func (Publish) isHubMsg()  {}
func (GetStats) isHubMsg() {}
func (Shutdown) isHubMsg() {}

type Stats struct {
	NumClients int
	Members    map[room.Room]int
}

// Recorder receives channel metrics. internal/metrics implements it.
type Recorder interface {
	Published(kind event.Kind)
	Dropped()
	Clients(n int)
	Rooms(n int)
}

type nopRecorder struct{}

func (nopRecorder) Published(event.Kind) {}
func (nopRecorder) Dropped()             {}
func (nopRecorder) Clients(int)          {}
func (nopRecorder) Rooms(int)            {}

type client struct {
	id     string
	rooms  []room.Room
	outbox chan event.Event
}

type Hub struct {
	inbox   chan Msg
	closing sync.RWMutex // held for write while the loop drains the inbox on exit
	clients map[string]*client
	rooms   map[room.Room]map[string]*client
	log     *zap.Logger
	rec     Recorder
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewHub(parent context.Context, log *zap.Logger, rec Recorder) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	h := &Hub{
		inbox:   make(chan Msg, 256),
		clients: make(map[string]*client),
		rooms:   make(map[room.Room]map[string]*client),
		log:     log.Named("hub"),
		rec:     rec,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) send(m Msg) bool {
	h.closing.RLock()
	defer h.closing.RUnlock()
	if h.ctx.Err() != nil {
		return false
	}
	select {
	case h.inbox <- m:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// Join registers outbox under clientID. Once the hub has stopped it either
// reports false or closes outbox; it never leaves outbox dangling.
func (h *Hub) Join(clientID string, rooms []room.Room, outbox chan event.Event) bool {
	return h.send(Join{ClientID: clientID, Rooms: rooms, Outbox: outbox})
}

func (h *Hub) Leave(clientID string) { h.send(Leave{ClientID: clientID}) }

// Publish never waits on any client. After shutdown it is a no-op.
func (h *Hub) Publish(r room.Room, ev event.Event) {
	h.send(Publish{Room: r, Event: ev})
}

func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	if !h.send(GetStats{Reply: reply}) {
		return Stats{}, context.Canceled
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	case <-h.done:
		return Stats{}, context.Canceled
	}
}

// Shutdown closes every outbox and waits for the loop to exit.
func (h *Hub) Shutdown() {
	h.send(Shutdown{})
	<-h.done
}

// Done is closed once the loop has exited.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Join:
				h.join(msg)

			case Leave:
				if c := h.clients[msg.ClientID]; c != nil {
					h.remove(c)
					h.log.Debug("client left", zap.String("client_id", c.id))
				}

			case Publish:
				h.publish(msg.Room, msg.Event)

			case GetStats:
				s := Stats{NumClients: len(h.clients), Members: make(map[room.Room]int, len(h.rooms))}
				for r, members := range h.rooms {
					s.Members[r] = len(members)
				}
				msg.Reply <- s

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) join(msg Join) {
	if old := h.clients[msg.ClientID]; old != nil {
		if old.outbox == msg.Outbox {
			h.detach(old)
		} else {
			h.remove(old)
		}
	}
	c := &client{id: msg.ClientID, rooms: msg.Rooms, outbox: msg.Outbox}
	h.clients[c.id] = c
	for _, r := range c.rooms {
		members := h.rooms[r]
		if members == nil {
			members = make(map[string]*client)
			h.rooms[r] = members
		}
		members[c.id] = c
	}
	h.rec.Clients(len(h.clients))
	h.rec.Rooms(len(h.rooms))
	h.log.Debug("client joined", zap.String("client_id", c.id), zap.Stringers("rooms", c.rooms))
}

func (h *Hub) publish(r room.Room, ev event.Event) {
	h.rec.Published(ev.Kind)
	for _, c := range h.rooms[r] {
		select {
		case c.outbox <- ev:
			// ok
		default:
			// Client is slow/full - drop them. It resyncs on reconnect.
			h.log.Debug("dropping slow client",
				zap.String("client_id", c.id),
				zap.Stringer("room", r),
				zap.String("event", string(ev.Kind)),
			)
			h.rec.Dropped()
			h.remove(c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.detach(c)
	close(c.outbox) // Tell client no more events
}

func (h *Hub) detach(c *client) {
	for _, r := range c.rooms {
		members := h.rooms[r]
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.rooms, r)
		}
	}
	delete(h.clients, c.id)
	h.rec.Clients(len(h.clients))
	h.rec.Rooms(len(h.rooms))
}

func (h *Hub) shutdown() {
	closed := make(map[chan event.Event]struct{}, len(h.clients))
	closeOnce := func(out chan event.Event) {
		if _, ok := closed[out]; !ok {
			closed[out] = struct{}{}
			close(out)
		}
	}
	for _, c := range h.clients {
		closeOnce(c.outbox)
	}
	clear(h.clients)
	clear(h.rooms)
	h.rec.Clients(0)
	h.rec.Rooms(0)

	// Senders that raced the cancel may have queued a Join. Its outbox must
	// still be closed or the caller waits on it forever.
	h.cancel()
	h.closing.Lock()
	defer h.closing.Unlock()
	for {
		select {
		case m := <-h.inbox:
			if j, ok := m.(Join); ok {
				closeOnce(j.Outbox)
			}
		default:
			return
		}
	}
}
