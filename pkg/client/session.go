// Package client is the Go counterpart of the browser client: it keeps a
// websocket open to the push channel, rebuilds its baseline from an HTTP
// snapshot after every (re)connect, and feeds events to registered handlers.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/DoyleJ11/sheet-sync/pkg/event"
)

const (
	// DefaultRetryDelay is the first wait after a failed connect.
	DefaultRetryDelay = 500 * time.Millisecond
	// MaxRetryDelay caps the wait between connect attempts.
	MaxRetryDelay = 10 * time.Second
)

// ResyncPolicy decides what happens to events that arrive on a fresh
// connection before the snapshot has been installed.
type ResyncPolicy int

const (
	// ResyncDrop discards them. The snapshot already reflects anything
	// committed before it was read.
	ResyncDrop ResyncPolicy = iota
	// ResyncBuffer holds them and applies them, in order, right after the
	// snapshot. Events already contained in the snapshot become no-ops or
	// rewrite a field with the value it already has.
	ResyncBuffer
)

type Config struct {
	// URL is the websocket endpoint, e.g. "ws://host:8080/ws".
	URL string
	// Token authenticates a player, NPC or admin. Portrait is used when
	// Token is empty.
	Token    string
	Portrait int

	Policy ResyncPolicy
	// Resync installs a new baseline. It runs after every successful dial
	// and must be safe to call repeatedly.
	Resync func(ctx context.Context) error
	// OnSynced, when set, runs after each baseline has been installed and
	// any buffered events applied.
	OnSynced func()

	// Backoff returns a fresh policy for each outage. Defaults to capped
	// exponential backoff with jitter.
	Backoff    func() retry.Backoff
	HTTPClient *http.Client
	Log        *zap.Logger
}

// Session implements viewmodel.Subscriber.
type Session struct {
	cfg      Config
	handlers registry
	log      *zap.Logger
}

func NewSession(cfg Config) *Session {
	if cfg.Backoff == nil {
		cfg.Backoff = func() retry.Backoff {
			b := retry.NewExponential(DefaultRetryDelay)
			b = retry.WithJitterPercent(20, b)
			return retry.WithCappedDuration(MaxRetryDelay, b)
		}
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{cfg: cfg, log: log.Named("client")}
}

func (s *Session) On(kind event.Kind, fn func(event.Event)) func() {
	return s.handlers.On(kind, fn)
}

func (s *Session) Off(kind event.Kind) { s.handlers.Off(kind) }

func (s *Session) endpoint() (string, error) {
	u, err := url.Parse(s.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	switch {
	case s.cfg.Token != "":
		q.Set("token", s.cfg.Token)
	case s.cfg.Portrait > 0:
		q.Set("portrait", strconv.Itoa(s.cfg.Portrait))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Run connects and keeps reconnecting until ctx is done. Handler state is
// left as it was across outages.
func (s *Session) Run(ctx context.Context) error {
	target, err := s.endpoint()
	if err != nil {
		return err
	}
	for {
		err := retry.Do(ctx, s.cfg.Backoff(), func(ctx context.Context) error {
			synced, err := s.connect(ctx, target)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if synced {
				// The outage starts now; let the outer loop begin with a
				// fresh backoff.
				s.log.Info("disconnected", zap.Error(err))
				return nil
			}
			s.log.Debug("connect failed", zap.Error(err))
			return retry.RetryableError(err)
		})
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return err
		}
	}
}

// connect runs one connection and reports whether a baseline was
// installed before the connection ended.
func (s *Session) connect(ctx context.Context, target string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, target, &websocket.DialOptions{HTTPClient: s.cfg.HTTPClient})
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}
	defer conn.CloseNow()

	frames := make(chan event.Event)
	readErr := make(chan error, 1)
	go func() { readErr <- read(ctx, conn, frames) }()

	resynced := make(chan error, 1)
	go func() {
		if s.cfg.Resync == nil {
			resynced <- nil
			return
		}
		resynced <- s.cfg.Resync(ctx)
	}()

	gate := &baseline{policy: s.cfg.Policy, dispatch: s.handlers.dispatch}
	for {
		select {
		case ev := <-frames:
			gate.receive(ev)

		case err := <-resynced:
			if err != nil {
				return false, fmt.Errorf("resync: %w", err)
			}
			gate.ready()
			s.log.Debug("synced")
			if s.cfg.OnSynced != nil {
				s.cfg.OnSynced()
			}
			resynced = nil

		case err := <-readErr:
			return gate.synced, err
		}
	}
}

// baseline gates delivery on one connection until the snapshot is in.
type baseline struct {
	policy   ResyncPolicy
	dispatch func(event.Event)
	synced   bool
	pending  []event.Event
}

func (b *baseline) receive(ev event.Event) {
	switch {
	case b.synced:
		b.dispatch(ev)
	case b.policy == ResyncBuffer:
		b.pending = append(b.pending, ev)
	}
}

func (b *baseline) ready() {
	b.synced = true
	for _, ev := range b.pending {
		b.dispatch(ev)
	}
	b.pending = nil
}

// read decodes frames until the connection fails. frames is unbuffered, so
// every frame read before an error has been handed over by the time the
// error is. Frames that are not events are skipped.
func read(ctx context.Context, conn *websocket.Conn, frames chan<- event.Event) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		ev, err := event.Decode(data)
		if err != nil {
			continue
		}
		select {
		case frames <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
