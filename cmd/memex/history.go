package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jean/Memex/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored pages by recency",
		Long: `History lists stored pages, most recently visited first, with optional
filters on domain, tag, bookmark status, visit time window, and URL
prefix. All filters combine with AND.

Examples:
  # The most recent pages
  memex history

  # Bookmarked golang pages on two sites
  memex history --tag golang --bookmarks --domain example.com --domain golang.org

  # Pages visited in June 2025
  memex history --from 2025-06-01 --to 2025-07-01

  # Page through older history
  memex history --offset 40`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringSlice("domain", nil, "Only pages on this domain (repeatable)")
	cmd.Flags().StringSlice("tag", nil, "Only pages carrying this tag (repeatable)")
	cmd.Flags().Bool("bookmarks", false, "Only bookmarked pages")
	cmd.Flags().String("from", "", "Only pages visited at or after this time")
	cmd.Flags().String("to", "", "Only pages visited before this time")
	cmd.Flags().String("url-prefix", "", "Only pages whose URL starts with this prefix")
	cmd.Flags().Int("limit", 0, "Page size (0 uses the configured default)")
	cmd.Flags().Int("offset", 0, "Skip this many pages")

	return cmd
}

// buildPageQuery assembles a PageQuery from the filter flags shared by
// history and rm.
func buildPageQuery(cmd *cobra.Command, defaultLimit int) (database.PageQuery, error) {
	var q database.PageQuery
	var err error

	if q.Domains, err = cmd.Flags().GetStringSlice("domain"); err != nil {
		return q, err
	}
	if q.Tags, err = cmd.Flags().GetStringSlice("tag"); err != nil {
		return q, err
	}
	if q.BookmarksOnly, err = cmd.Flags().GetBool("bookmarks"); err != nil {
		return q, err
	}

	from, err := cmd.Flags().GetString("from")
	if err != nil {
		return q, err
	}
	if q.From, err = parseTimeFlag(from); err != nil {
		return q, err
	}

	to, err := cmd.Flags().GetString("to")
	if err != nil {
		return q, err
	}
	if q.To, err = parseTimeFlag(to); err != nil {
		return q, err
	}

	if q.URLPrefix, err = cmd.Flags().GetString("url-prefix"); err != nil {
		return q, err
	}

	if cmd.Flags().Lookup("limit") != nil {
		if q.Limit, err = cmd.Flags().GetInt("limit"); err != nil {
			return q, err
		}
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if cmd.Flags().Lookup("offset") != nil {
		if q.Offset, err = cmd.Flags().GetInt("offset"); err != nil {
			return q, err
		}
	}

	return q, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	setupLogger(cfg.Verbose)

	q, err := buildPageQuery(cmd, cfg.QueryLimit)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	pages, err := store.FindPages(ctx, q)
	if err != nil {
		return err
	}
	total, err := store.CountPages(ctx, q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if total == 0 {
		fmt.Fprintln(out, "No matching pages")
		return nil
	}

	for _, page := range pages {
		visits, err := store.VisitsForPage(ctx, page.URL)
		if err != nil {
			return err
		}
		lastVisit := "never"
		if len(visits) > 0 {
			lastVisit = visits[0].Timestamp().Format(time.DateTime)
		}

		title := page.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(out, "%s  %s\n       %s\n", lastVisit, title, page.URL)
	}

	fmt.Fprintf(out, "\n%d of %d pages (offset %d)\n", len(pages), total, q.Offset)
	return nil
}
