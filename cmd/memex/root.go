// Package main provides the entry point for the Memex CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jean/Memex/internal/config"
)

// NewRootCmd creates the root command for Memex.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memex",
		Short: "Local full-text memory of the pages you browse",
		Long: `Memex stores pages, visits, tags, and bookmarks in a local SQLite
database and keeps a full-text search index over page text.

Pages get in either by saving them directly or by importing history
exported from the browser extension. Everything stays on this machine.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("db", config.XDGDataDir(),
		"Directory holding the Memex database")
	cmd.PersistentFlags().String("index", "",
		"Directory holding the search index (default: <db>/index)")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .memex in current or home directory)")
	cmd.PersistentFlags().Bool("metrics", false,
		"Collect Prometheus metrics for database operations")

	// Add subcommands
	cmd.AddCommand(NewSaveCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewTagCmd())
	cmd.AddCommand(NewBookmarkCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewRemoveCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
