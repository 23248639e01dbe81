package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/sheet-sync/internal/auth"
	"github.com/DoyleJ11/sheet-sync/internal/config"
	"github.com/DoyleJ11/sheet-sync/internal/httpapi"
	"github.com/DoyleJ11/sheet-sync/internal/hub"
	"github.com/DoyleJ11/sheet-sync/internal/logging"
	"github.com/DoyleJ11/sheet-sync/internal/metrics"
	"github.com/DoyleJ11/sheet-sync/internal/service"
	"github.com/DoyleJ11/sheet-sync/internal/store"
	"github.com/DoyleJ11/sheet-sync/internal/ws"
	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

const shutdownTimeout = 10 * time.Second

func NewServeCmd() *cobra.Command {
	var players []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and websocket server",
		Long: `Start the HTTP API and websocket server. Without SHEET_DATABASE_URL the
server keeps everything in memory; use --player to create characters at start.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), players)
		},
	}
	cmd.Flags().StringSliceVar(&players, "player", nil, "create a player character in the in-memory store (repeatable)")
	return cmd
}

func runServe(ctx context.Context, players []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	log, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, players, log)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	m := metrics.New()
	h := hub.NewHub(ctx, log, m)

	handler := httpapi.SetupRoutes(httpapi.Deps{
		Sheets: service.New(st, h, log),
		Tokens: tokens,
		Socket: ws.Handler(h, tokens, ws.Options{
			OutboxSize:   cfg.OutboxSize,
			WriteTimeout: cfg.WriteTimeout,
			PingInterval: cfg.PingInterval,
		}, log),
		Metrics: m.Handler(),
		Rooms:   h,
		Log:     log,
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.Bool("in_memory", cfg.InMemory()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		// Closing every outbox ends the websocket handlers; HTTP
		// Shutdown does not wait for hijacked connections.
		h.Shutdown()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config, players []string, log *zap.Logger) (store.Store, func(), error) {
	if !cfg.InMemory() {
		if len(players) > 0 {
			return nil, nil, oops.Code("CONFIG_INVALID").Errorf("--player only applies to the in-memory store; use seed for the database")
		}
		gs, err := store.OpenGorm(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
		}
		return gs, func() { _ = gs.Close() }, nil
	}

	ms := store.NewMemoryStore(store.DefaultCatalog())
	for _, name := range players {
		c, err := ms.CreateCharacter(ctx, name, types.RolePlayer)
		if err != nil {
			return nil, nil, fmt.Errorf("create player %q: %w", name, err)
		}
		log.Info("created player", zap.Int("character_id", c.ID), zap.String("name", c.Name))
	}
	return ms, func() {}, nil
}
