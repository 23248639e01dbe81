package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/sheet-sync/internal/auth"
	"github.com/DoyleJ11/sheet-sync/internal/hub"
	"github.com/DoyleJ11/sheet-sync/internal/room"
	"github.com/DoyleJ11/sheet-sync/pkg/event"
)

type fixture struct {
	hub    *hub.Hub
	tokens *auth.Tokens
	url    string
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	h := hub.NewHub(context.Background(), nil, nil)
	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	srv := httptest.NewServer(Handler(h, tokens, opts, nil))
	t.Cleanup(func() {
		h.Shutdown()
		srv.Close()
	})
	return &fixture{hub: h, tokens: tokens, url: "ws" + strings.TrimPrefix(srv.URL, "http")}
}

func (f *fixture) dial(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, f.url+"?"+query, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func (f *fixture) tokenFor(t *testing.T, id auth.Identity) string {
	t.Helper()
	tok, err := f.tokens.Issue(id)
	require.NoError(t, err)
	return tok
}

// waitMembers blocks until the hub reports n clients, so a publish is not
// racing the join.
func (f *fixture) waitMembers(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		s, err := f.hub.Stats(context.Background())
		return err == nil && s.NumClients == n
	}, 2*time.Second, 5*time.Millisecond)
}

func read(t *testing.T, conn *websocket.Conn) (event.Event, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var ev event.Event
	err := wsjson.Read(ctx, conn, &ev)
	return ev, err
}

func readNothing(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, _, err := conn.Read(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHandler_PlayerReceivesOwnRoom(t *testing.T) {
	f := newFixture(t, Options{})
	conn := f.dial(t, "token="+f.tokenFor(t, auth.Player(7)))
	f.waitMembers(t, 1)

	f.hub.Publish(room.Player(8), event.NameChange(8, "Brann"))
	f.hub.Publish(room.Player(7), event.AttributeChange(7, 1, 7, 10, 0))

	ev, err := read(t, conn)
	require.NoError(t, err)
	assert.Equal(t, event.KindAttributeChange, ev.Kind)
	id, _ := ev.CharacterID()
	assert.Equal(t, 7, id)
	v, _ := ev.Int(2)
	assert.Equal(t, 7, v)
}

func TestHandler_AdminAndPortrait(t *testing.T) {
	f := newFixture(t, Options{})
	admin := f.dial(t, "token="+f.tokenFor(t, auth.Admin()))
	portrait := f.dial(t, "portrait=9")
	f.waitMembers(t, 2)

	f.hub.Publish(room.Portrait(9), event.AttributeStatusChange(9, 10, true))
	f.hub.Publish(room.Admin(), event.NPCAdd(12, "Goblin"))

	ev, err := read(t, portrait)
	require.NoError(t, err)
	assert.Equal(t, event.KindAttributeStatusChange, ev.Kind)

	ev, err = read(t, admin)
	require.NoError(t, err)
	assert.Equal(t, event.KindNPCAdd, ev.Kind)
}

func TestHandler_InvalidTokenIsInert(t *testing.T) {
	f := newFixture(t, Options{})
	conn := f.dial(t, "token=forged")
	f.waitMembers(t, 1)

	f.hub.Publish(room.Admin(), event.NPCAdd(12, "Goblin"))
	f.hub.Publish(room.Player(7), event.NameChange(7, "Aria"))

	readNothing(t, conn)
}

func TestHandler_HubShutdownClosesForResync(t *testing.T) {
	f := newFixture(t, Options{})
	conn := f.dial(t, "portrait=3")
	f.waitMembers(t, 1)

	f.hub.Shutdown()

	_, err := read(t, conn)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusTryAgainLater, websocket.CloseStatus(err))
}

func TestIdentify(t *testing.T) {
	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)
	tok, err := tokens.Issue(auth.NPC(4))
	require.NoError(t, err)

	cases := map[string]auth.Identity{
		"/ws?token=" + tok:         auth.NPC(4),
		"/ws?token=bad&portrait=2": auth.Unauthenticated,
		"/ws?portrait=2":           auth.Portrait(2),
		"/ws?portrait=-1":          auth.Unauthenticated,
		"/ws?portrait=two":         auth.Unauthenticated,
		"/ws":                      auth.Unauthenticated,
	}
	for target, want := range cases {
		r := httptest.NewRequest(http.MethodGet, target, nil)
		assert.Equal(t, want, Identify(tokens, r), target)
	}

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	assert.Equal(t, auth.NPC(4), Identify(tokens, r))
}
