package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/DoyleJ11/sheet-sync/internal/store"
	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

const defaultSeedTimeout = 30 * time.Second

// NewSeedCmd creates player characters in the database. Running it again
// with the same names creates nothing new.
func NewSeedCmd() *cobra.Command {
	var (
		players []string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create player characters",
		Long: `Creates a player character for every --player name that does not exist yet
and prints the character ids, for use with "token --role player --character <id>".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(players) == 0 {
				return oops.Code("CONFIG_INVALID").Errorf("at least one --player is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return oops.Code("CONFIG_INVALID").Wrap(err)
			}
			if cfg.InMemory() {
				return oops.Code("CONFIG_INVALID").Errorf("SHEET_DATABASE_URL is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			gs, err := store.OpenGorm(cfg.DatabaseURL)
			if err != nil {
				return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
			}
			defer gs.Close()

			if err := seedPlayers(ctx, gs, players, cmd.OutOrStdout()); err != nil {
				return oops.Code("SEED_FAILED").With("operation", "create players").Wrap(err)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&players, "player", nil, "player character to create (repeatable)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultSeedTimeout, "timeout for database operations")
	return cmd
}

// seedPlayers creates the players that are missing and prints "<id>\t<name>"
// for every requested name.
func seedPlayers(ctx context.Context, st store.Store, names []string, out io.Writer) error {
	existing, err := st.Characters(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		i := slices.IndexFunc(existing, func(c types.Character) bool {
			return c.Role == types.RolePlayer && c.Name == name
		})
		if i >= 0 {
			fmt.Fprintf(out, "%d\t%s\t(exists)\n", existing[i].ID, name)
			continue
		}
		c, err := st.CreateCharacter(ctx, name, types.RolePlayer)
		if err != nil {
			return fmt.Errorf("create player %q: %w", name, err)
		}
		existing = append(existing, c)
		fmt.Fprintf(out, "%d\t%s\n", c.ID, c.Name)
	}
	return nil
}
