package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jean/Memex/internal/extract"
	"github.com/jean/Memex/internal/model"
)

// NewSaveCmd creates the save command.
func NewSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <url>",
		Short: "Save a page to the database",
		Long: `Save stores a page record and a visit at the current time, and adds
the page text to the search index.

Title and text can be given directly, or extracted from a local HTML
file with --html (useful for pages saved with the browser's
"Save Page As"). Passing "-" reads the HTML from standard input.

Examples:
  # Save a page with explicit title and text
  memex save https://example.com/article --title "An Article" --text "..."

  # Extract title and text from a saved HTML file
  memex save https://example.com/article --html article.html

  # Extract from stdin
  curl -s https://example.com/article | memex save https://example.com/article --html -

  # Save, tag, and bookmark in one go
  memex save https://example.com/article --html article.html \
    --tag golang --tag reference --bookmark`,
		Args: cobra.ExactArgs(1),
		RunE: runSaveCmd,
	}

	cmd.Flags().String("title", "", "Page title")
	cmd.Flags().String("text", "", "Page text to index")
	cmd.Flags().String("html", "", "Extract title and text from this HTML file")
	cmd.Flags().StringSlice("tag", nil, "Tag to attach (repeatable)")
	cmd.Flags().Bool("bookmark", false, "Bookmark the page")

	return cmd
}

// runSaveCmd executes the save command.
func runSaveCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cfg.Verbose)

	rawURL := args[0]
	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return err
	}
	text, err := cmd.Flags().GetString("text")
	if err != nil {
		return err
	}
	htmlPath, err := cmd.Flags().GetString("html")
	if err != nil {
		return err
	}
	tags, err := cmd.Flags().GetStringSlice("tag")
	if err != nil {
		return err
	}
	bookmark, err := cmd.Flags().GetBool("bookmark")
	if err != nil {
		return err
	}

	// Extract content from the HTML source when given. Explicit flags win
	// over extracted values.
	if htmlPath != "" {
		var result *extract.Result
		if htmlPath == "-" {
			result, err = extractHTML(rawURL, cmd.InOrStdin())
		} else {
			result, err = extractFromFile(rawURL, htmlPath)
		}
		if err != nil {
			return err
		}
		if title == "" {
			title = result.Title
		}
		if text == "" {
			text = result.Text
		}
	}

	page, err := model.NewPage(rawURL, title, text)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if err := store.UpsertPage(ctx, page); err != nil {
		return err
	}
	if err := store.AddVisit(ctx, model.NewVisit(page.URL, time.Now())); err != nil {
		return err
	}

	for _, tag := range tags {
		if err := store.AddTag(ctx, tag, page.URL); err != nil {
			return fmt.Errorf("failed to tag %q: %w", tag, err)
		}
	}

	if bookmark {
		if err := store.AddBookmark(ctx, model.NewBookmark(page.URL, time.Now())); err != nil {
			return err
		}
	}

	indexer, err := openIndexer(cfg)
	if err != nil {
		return err
	}
	defer indexer.Close()

	if err := indexer.IndexPage(page); err != nil {
		return err
	}

	logger.Info("page saved", "url", page.URL, "tags", len(tags))
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", page.URL)
	return nil
}

// extractFromFile parses a local HTML file with the page URL as base for
// resolving relative links.
func extractFromFile(pageURL, path string) (*extract.Result, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided HTML path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open HTML file: %w", err)
	}
	defer f.Close()

	return extractHTML(pageURL, f)
}

// extractHTML parses HTML from r with the page URL as base for resolving
// relative links.
func extractHTML(pageURL string, r io.Reader) (*extract.Result, error) {
	parser, err := extract.NewParser(pageURL)
	if err != nil {
		return nil, err
	}
	return parser.Parse(r)
}
