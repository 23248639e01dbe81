package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/sheet-sync/internal/auth"
	"github.com/DoyleJ11/sheet-sync/internal/service"
)

type Deps struct {
	Sheets  *service.Sheets
	Tokens  *auth.Tokens
	Socket  http.Handler // GET /ws
	Metrics http.Handler // GET /metrics, optional
	Rooms   RoomStats    // GET /rooms, optional
	Log     *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	a := &api{sheets: d.Sheets, rooms: d.Rooms, log: log.Named("http")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}
	r.Get("/characters/{id}/portrait", a.getPortrait)
	if d.Socket != nil {
		r.Method(http.MethodGet, "/ws", d.Socket)
	}

	r.Group(func(r chi.Router) {
		r.Use(RequestLog(a.log), Authenticate(d.Tokens))

		r.Route("/characters/{id}", func(r chi.Router) {
			r.Use(CharacterAccess)
			r.Get("/sheet", a.getSheet)
			r.Patch("/", a.updateCharacter)
			r.Put("/{collection}/{entryId}", a.setValue)
			r.Post("/{collection}", a.addEntry)
			r.Patch("/{collection}/{entryId}", a.changeEntry)
			r.Delete("/{collection}/{entryId}", a.removeEntry)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminOnly)
			r.Get("/characters", a.listCharacters)
			r.Post("/npcs", a.createNPC)
			r.Delete("/npcs/{id}", a.deleteNPC)
			if d.Rooms != nil {
				r.Get("/rooms", a.listRooms)
				r.Get("/rooms/{room}", a.getRoom)
			}
		})
	})
	return r
}
