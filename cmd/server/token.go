package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DoyleJ11/sheet-sync/internal/auth"
)

// NewTokenCmd issues a signed token for development and for wiring an
// external login service.
func NewTokenCmd() *cobra.Command {
	var (
		role        string
		characterID int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
			if err != nil {
				return err
			}

			var id auth.Identity
			switch auth.Role(role) {
			case auth.RoleAdmin:
				id = auth.Admin()
			case auth.RolePlayer:
				id = auth.Player(characterID)
			case auth.RoleNPC:
				id = auth.NPC(characterID)
			default:
				return fmt.Errorf("role must be admin, player or npc, got %q", role)
			}

			tok, err := tokens.Issue(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "player", "admin, player or npc")
	cmd.Flags().IntVar(&characterID, "character", 0, "character id for player and npc tokens")
	return cmd
}
