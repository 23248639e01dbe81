package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DoyleJ11/sheet-sync/internal/hub"
	"github.com/DoyleJ11/sheet-sync/internal/room"
)

// RoomStats reports live channel membership. *hub.Hub implements it.
type RoomStats interface {
	Stats(ctx context.Context) (hub.Stats, error)
}

func (a *api) listRooms(w http.ResponseWriter, r *http.Request) {
	s, err := a.rooms.Stats(r.Context())
	if err != nil {
		fail(w, a.log, err)
		return
	}
	members := make(map[string]int, len(s.Members))
	for rm, n := range s.Members {
		members[rm.String()] = n
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": s.NumClients, "rooms": members})
}

func (a *api) getRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := room.Parse(chi.URLParam(r, "room"))
	if err != nil {
		fail(w, a.log, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s, err := a.rooms.Stats(r.Context())
	if err != nil {
		fail(w, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": rm.String(), "members": s.Members[rm]})
}
