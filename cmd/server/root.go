package main

import (
	"github.com/spf13/cobra"

	"github.com/DoyleJ11/sheet-sync/internal/config"
)

var envFile string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet-sync",
		Short: "Real-time character sheet sync server",
		Long: `sheet-sync persists tabletop character sheets and pushes every committed
change to the players, the game master and the portrait overlays watching it.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading SHEET_* variables")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewTokenCmd())
	return cmd
}

func loadConfig() (config.Config, error) {
	return config.Load(envFile)
}
