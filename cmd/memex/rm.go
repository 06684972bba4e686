package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jean/Memex/internal/config"
	"github.com/jean/Memex/internal/model"
)

// ErrNoRemoveFilter is returned when rm is invoked without any URL or
// filter flag. Deleting the whole database requires an explicit --all.
var ErrNoRemoveFilter = errors.New("no URLs or filters given (pass --all to delete every page)")

// NewRemoveCmd creates the rm command.
func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm [url]...",
		Short: "Delete pages and their visits, tags, and bookmarks",
		Long: `Rm deletes stored pages together with their visits, tags, and
bookmarks, and removes them from the search index. Pages are selected
by URL arguments, by the same filter flags history accepts, or both.
Without --yes the matching pages are listed and nothing is deleted.

Examples:
  # Preview what would be deleted
  memex rm --domain tracker.example

  # Delete a single page
  memex rm --yes https://example.com/article

  # Delete everything visited before 2024
  memex rm --yes --to 2024-01-01

  # Prune visit rows older than a cutoff without touching pages
  memex rm --yes --visits-before 2024-01-01`,
		RunE: runRemoveCmd,
	}

	cmd.Flags().StringSlice("domain", nil, "Only pages on this domain (repeatable)")
	cmd.Flags().StringSlice("tag", nil, "Only pages carrying this tag (repeatable)")
	cmd.Flags().Bool("bookmarks", false, "Only bookmarked pages")
	cmd.Flags().String("from", "", "Only pages visited at or after this time")
	cmd.Flags().String("to", "", "Only pages visited before this time")
	cmd.Flags().String("url-prefix", "", "Only pages whose URL starts with this prefix")
	cmd.Flags().String("visits-before", "", "Delete visit rows older than this time instead of pages")
	cmd.Flags().Bool("all", false, "Allow deleting with no filters at all")
	cmd.Flags().BoolP("yes", "y", false, "Actually delete; without it matches are only listed")

	return cmd
}

// runRemoveCmd executes the rm command.
func runRemoveCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	setupLogger(cfg.Verbose)

	confirmed, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}

	visitsBefore, err := cmd.Flags().GetString("visits-before")
	if err != nil {
		return err
	}
	if visitsBefore != "" {
		return runPruneVisits(cmd, cfg, visitsBefore, confirmed)
	}

	q, err := buildPageQuery(cmd, 0)
	if err != nil {
		return err
	}

	// URL arguments canonicalize the same way save does, so
	// "example.com/a#frag" matches the stored row.
	for _, raw := range args {
		page, err := model.NewPage(raw, "", "")
		if err != nil {
			return fmt.Errorf("invalid URL %q: %w", raw, err)
		}
		q.URLs = append(q.URLs, page.URL)
	}

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	if q.IsEmpty() && !all {
		return ErrNoRemoveFilter
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	// Collect matches up front: the listing doubles as the dry-run
	// output, and the index removal needs the URLs after the rows
	// are gone.
	matches, err := store.FindPages(ctx, q)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matching pages")
		return nil
	}

	if !confirmed {
		for _, page := range matches {
			fmt.Fprintln(out, page.URL)
		}
		fmt.Fprintf(out, "\n%d page(s) would be deleted (pass --yes to delete)\n", len(matches))
		return nil
	}

	deleted, err := store.DeletePages(ctx, q)
	if err != nil {
		return err
	}

	indexer, err := openIndexer(cfg)
	if err != nil {
		return err
	}
	defer indexer.Close()

	for _, page := range matches {
		if err := indexer.Remove(page.URL); err != nil {
			return fmt.Errorf("failed to remove %s from index: %w", page.URL, err)
		}
	}

	fmt.Fprintf(out, "Deleted %d page(s)\n", deleted)
	return nil
}

// runPruneVisits handles --visits-before: visit rows older than the
// cutoff are removed while pages, tags, and bookmarks stay intact.
func runPruneVisits(cmd *cobra.Command, cfg *config.Config, value string, confirmed bool) error {
	cutoff, err := parseTimeFlag(value)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if !confirmed {
		fmt.Fprintf(out, "Would delete visits before %s (pass --yes to delete)\n",
			time.UnixMilli(cutoff).Format(time.DateTime))
		return nil
	}

	deleted, err := store.DeleteVisitsBefore(cmd.Context(), cutoff)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %d visit(s)\n", deleted)
	return nil
}
