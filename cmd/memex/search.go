package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over stored pages",
		Long: `Search runs a full-text query against the indexed page titles and text.

The query uses the index's query string syntax: bare terms match
anywhere, quoted phrases match exactly, and +term / -term require or
exclude a term.

Examples:
  # Find pages mentioning both words
  memex search "raft consensus"

  # Require one term, exclude another
  memex search "+golang -tutorial"

  # Page through results
  memex search golang --offset 20 --limit 20`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearchCmd,
	}

	cmd.Flags().Uint64("offset", 0, "Skip this many hits")
	cmd.Flags().Int("limit", 0, "Stop after this many hits (0 uses the configured page size)")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	setupLogger(cfg.Verbose)

	offset, err := cmd.Flags().GetUint64("offset")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = cfg.QueryLimit
	}

	indexer, err := openIndexer(cfg)
	if err != nil {
		return err
	}
	defer indexer.Close()

	expression := strings.Join(args, " ")
	it, err := indexer.Search(expression, offset)
	if err != nil {
		return err
	}
	defer it.Close()

	out := cmd.OutOrStdout()
	shown := 0
	for it.Next() && shown < limit {
		hit := it.Hit()
		title := hit.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(out, "%5.2f  %s\n       %s\n", hit.Score, title, hit.URL)
		shown++
	}
	if err := it.Error(); err != nil {
		return err
	}

	if total := it.TotalCount(); total == 0 {
		fmt.Fprintf(out, "No results for %q\n", expression)
	} else {
		fmt.Fprintf(out, "\n%d of %d results (offset %d)\n", shown, total, offset)
	}
	return nil
}
