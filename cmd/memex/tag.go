package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jean/Memex/internal/config"
	"github.com/jean/Memex/internal/database"
)

// NewTagCmd creates the tag command with its subcommands.
func NewTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage page tags",
		Long: `Tag attaches labels to stored pages. Tag names are normalized:
surrounding whitespace is trimmed, runs of whitespace collapse to one
space, and the name is case-folded.

Examples:
  memex tag add golang https://example.com/article
  memex tag rm golang https://example.com/article
  memex tag ls https://example.com/article
  memex tag pages golang
  memex tag suggest go`,
	}

	cmd.AddCommand(newTagAddCmd())
	cmd.AddCommand(newTagRemoveCmd())
	cmd.AddCommand(newTagListCmd())
	cmd.AddCommand(newTagPagesCmd())
	cmd.AddCommand(newTagSuggestCmd())

	return cmd
}

// newTagAddCmd creates the tag add subcommand.
func newTagAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Attach a tag to a page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *database.Store) error {
				if err := store.AddTag(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s with %q\n", args[1], args[0])
				return nil
			})
		},
	}
}

// newTagRemoveCmd creates the tag rm subcommand.
func newTagRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name> <url>",
		Short: "Remove a tag from a page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *database.Store) error {
				removed, err := store.RemoveTag(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Page was not tagged %q\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from %s\n", args[0], args[1])
				return nil
			})
		},
	}
}

// newTagListCmd creates the tag ls subcommand.
func newTagListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <url>",
		Short: "List the tags on a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *database.Store) error {
				tags, err := store.TagsForPage(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(tags) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tags")
					return nil
				}
				for _, tag := range tags {
					fmt.Fprintln(cmd.OutOrStdout(), tag)
				}
				return nil
			})
		},
	}
}

// newTagPagesCmd creates the tag pages subcommand.
func newTagPagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pages <name>",
		Short: "List the pages carrying a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *database.Store) error {
				urls, err := store.PagesForTag(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(urls) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No pages tagged %q\n", args[0])
					return nil
				}
				for _, url := range urls {
					fmt.Fprintln(cmd.OutOrStdout(), url)
				}
				return nil
			})
		},
	}
}

// newTagSuggestCmd creates the tag suggest subcommand.
func newTagSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest [prefix]",
		Short: "Suggest tags by prefix, most used first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			return withStore(cmd, func(store *database.Store) error {
				suggestions, err := store.SuggestTags(cmd.Context(), prefix, limit)
				if err != nil {
					return err
				}
				for _, tc := range suggestions {
					fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s\n", tc.Pages, tc.Name)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int("limit", config.DefaultSuggestionLimit, "Maximum suggestions")
	return cmd
}

// withStore runs fn with an open store, handling config and cleanup.
func withStore(cmd *cobra.Command, fn func(*database.Store) error) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	setupLogger(cfg.Verbose)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}
