package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jean/Memex/internal/database"
	"github.com/jean/Memex/internal/model"
)

// NewBookmarkCmd creates the bookmark command with its subcommands.
func NewBookmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Manage bookmarks",
		Long: `Bookmark marks stored pages as explicitly saved. A page can carry at
most one bookmark.

Examples:
  memex bookmark add https://example.com/article
  memex bookmark rm https://example.com/article
  memex bookmark ls`,
	}

	cmd.AddCommand(newBookmarkAddCmd())
	cmd.AddCommand(newBookmarkRemoveCmd())
	cmd.AddCommand(newBookmarkListCmd())

	return cmd
}

// newBookmarkAddCmd creates the bookmark add subcommand.
func newBookmarkAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>",
		Short: "Bookmark a stored page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *database.Store) error {
				bookmark := model.NewBookmark(args[0], time.Now())
				if err := store.AddBookmark(cmd.Context(), bookmark); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %s\n", args[0])
				return nil
			})
		},
	}
}

// newBookmarkRemoveCmd creates the bookmark rm subcommand.
func newBookmarkRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <url>",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *database.Store) error {
				removed, err := store.RemoveBookmark(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Page was not bookmarked\n")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed bookmark from %s\n", args[0])
				return nil
			})
		},
	}
}

// newBookmarkListCmd creates the bookmark ls subcommand.
func newBookmarkListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List bookmarks, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			offset, err := cmd.Flags().GetInt("offset")
			if err != nil {
				return err
			}
			return withStore(cmd, func(store *database.Store) error {
				bookmarks, err := store.ListBookmarks(cmd.Context(), limit, offset)
				if err != nil {
					return err
				}
				if len(bookmarks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks")
					return nil
				}
				for _, b := range bookmarks {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n",
						b.Timestamp().Format(time.DateTime), b.URL)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int("limit", 0, "Page size (0 means no limit)")
	cmd.Flags().Int("offset", 0, "Skip this many bookmarks")
	return cmd
}
