// Package ws serves the push channel. Clients never send on it; writes go
// through the HTTP API and come back here as events.
package ws

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/DoyleJ11/sheet-sync/internal/auth"
	"github.com/DoyleJ11/sheet-sync/internal/hub"
	"github.com/DoyleJ11/sheet-sync/internal/room"
	"github.com/DoyleJ11/sheet-sync/pkg/event"
)

type Options struct {
	OutboxSize     int
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	OriginPatterns []string
}

func (o Options) withDefaults() Options {
	if o.OutboxSize <= 0 {
		o.OutboxSize = 64
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 3 * time.Second
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 25 * time.Second
	}
	return o
}

// Identify resolves the connection's identity from the query string. A
// token wins over a portrait id. Anything that does not resolve yields
// auth.Unauthenticated, which joins no rooms.
func Identify(tokens *auth.Tokens, r *http.Request) auth.Identity {
	q := r.URL.Query()
	if tok := token(q, r.Header); tok != "" {
		id, err := tokens.Resolve(tok)
		if err != nil {
			return auth.Unauthenticated
		}
		return id
	}
	if p := q.Get("portrait"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return auth.Unauthenticated
		}
		return auth.Portrait(n)
	}
	return auth.Unauthenticated
}

func token(q url.Values, h http.Header) string {
	if t := q.Get("token"); t != "" {
		return t
	}
	t, _ := strings.CutPrefix(h.Get("Authorization"), "Bearer ")
	return strings.TrimSpace(t)
}

func Handler(h *hub.Hub, tokens *auth.Tokens, opts Options, log *zap.Logger) http.HandlerFunc {
	opts = opts.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		id := Identify(tokens, r)
		rooms := room.ForIdentity(id)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			log.Debug("accept failed", zap.Error(err))
			return
		}
		defer conn.CloseNow()

		clientID := ulid.Make().String()
		out := make(chan event.Event, opts.OutboxSize)
		if !h.Join(clientID, rooms, out) {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
		defer h.Leave(clientID)

		clog := log.With(zap.String("client_id", clientID), zap.String("role", string(id.Role)), zap.Stringers("rooms", rooms))
		clog.Debug("connected")

		// Reads only service control frames; a data frame closes the socket.
		ctx := conn.CloseRead(r.Context())
		status, reason := serve(ctx, conn, out, opts)
		if status != 0 {
			conn.Close(status, reason)
		}
		clog.Debug("disconnected", zap.String("reason", reason))
	}
}

// serve writes events until the client goes away or the hub closes the
// outbox. It returns the close status to send, or 0 when the connection is
// already gone.
func serve(ctx context.Context, conn *websocket.Conn, out <-chan event.Event, opts Options) (websocket.StatusCode, string) {
	ping := time.NewTicker(opts.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return 0, "client closed"

		case ev, ok := <-out:
			if !ok {
				// Dropped as a slow consumer, or shutdown. Either way the
				// client must reconnect and refetch.
				return websocket.StatusTryAgainLater, "resync required"
			}
			wctx, cancel := context.WithTimeout(ctx, opts.WriteTimeout)
			err := wsjson.Write(wctx, conn, ev)
			cancel()
			if err != nil {
				return closeStatus(err), "write failed"
			}

		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, opts.WriteTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				return closeStatus(err), "ping failed"
			}
		}
	}
}

func closeStatus(err error) websocket.StatusCode {
	if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
		return 0
	}
	return websocket.StatusPolicyViolation
}
