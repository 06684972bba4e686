package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jean/Memex/internal/database"
	"github.com/jean/Memex/internal/model"
	"github.com/jean/Memex/internal/search"
)

// rebuildPageSize is how many pages are fetched from the database per
// round trip while rebuilding the index.
const rebuildPageSize = 200

// NewIndexCmd creates the index command.
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect or rebuild the search index",
		Long: `Index shows how many documents the search index holds. With --rebuild,
the index is deleted and rebuilt from the page table.

The index is derived state: rebuilding never loses data, and is the fix
for an index that got out of sync with the database (e.g. after
importing with --no-index).

Examples:
  # Show index size
  memex index

  # Rebuild from the database
  memex index --rebuild`,
		Args: cobra.NoArgs,
		RunE: runIndexCmd,
	}

	cmd.Flags().Bool("rebuild", false, "Delete and rebuild the index from the database")

	return cmd
}

// runIndexCmd executes the index command.
func runIndexCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cfg.Verbose)

	rebuild, err := cmd.Flags().GetBool("rebuild")
	if err != nil {
		return err
	}

	if !rebuild {
		indexer, err := openIndexer(cfg)
		if err != nil {
			return err
		}
		defer indexer.Close()

		count, err := indexer.Count()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d documents indexed\n", count)
		return nil
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("rebuilding search index", "dir", cfg.IndexDir)
	if err := search.Destroy(cfg.IndexDir); err != nil {
		return err
	}

	indexer, err := openIndexer(cfg)
	if err != nil {
		return err
	}
	defer indexer.Close()

	indexed, err := indexer.Rebuild(pageSource(cmd, store))
	if err != nil {
		return fmt.Errorf("rebuild failed after %d pages: %w", indexed, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt index with %d pages\n", indexed)
	return nil
}

// pageSource returns a page iterator over the whole page table, fetching
// in chunks. It yields nil when exhausted.
func pageSource(cmd *cobra.Command, store *database.Store) func() (*model.Page, error) {
	var pending []model.Page
	offset := 0
	done := false

	return func() (*model.Page, error) {
		if len(pending) == 0 && !done {
			pages, err := store.FindPages(cmd.Context(), database.PageQuery{
				Limit:  rebuildPageSize,
				Offset: offset,
			})
			if err != nil {
				return nil, err
			}
			offset += len(pages)
			pending = pages
			if len(pages) < rebuildPageSize {
				done = true
			}
		}
		if len(pending) == 0 {
			return nil, nil
		}
		page := pending[0]
		pending = pending[1:]
		return &page, nil
	}
}
