package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jean/Memex/internal/config"
	"github.com/jean/Memex/internal/database"
	"github.com/jean/Memex/internal/importer"
	"github.com/jean/Memex/internal/search"
)

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import exported history files",
		Long: `Import ingests history export files into the database and search index.

Two export layouts are accepted: a JSON object with a "pages" array as
written by the extension's full export, and newline-delimited JSON with
one record per line. Records whose content is already stored are
skipped; their visits and tags still import, so re-running an import is
safe.

A named source profile from the .memex config file can attach extra
tags and adjust behavior per source.

Examples:
  # Import one export file
  memex import export.json

  # Import many files concurrently
  memex import exports/*.json --concurrency 8

  # Apply the "laptop" profile from .memex
  memex import export.json --profile laptop

  # Keep going when a step fails
  memex import export.json --continue-on-error`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportCmd,
	}

	cmd.Flags().Int("concurrency", config.DefaultImportConcurrency,
		"Number of files imported in parallel")
	cmd.Flags().Bool("continue-on-error", false,
		"Run remaining pipeline steps after a step fails")
	cmd.Flags().String("profile", "",
		"Profile name from the config file's sources section")
	cmd.Flags().Bool("no-index", false,
		"Skip full-text indexing (rebuild later with 'memex index --rebuild')")

	return cmd
}

// runImportCmd executes the import command.
func runImportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	cfg.ImportConcurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}
	cfg.ContinueOnError, err = cmd.Flags().GetBool("continue-on-error")
	if err != nil {
		return err
	}
	profileName, err := cmd.Flags().GetString("profile")
	if err != nil {
		return err
	}
	noIndex, err := cmd.Flags().GetBool("no-index")
	if err != nil {
		return err
	}

	// Apply the source profile on top of the flags.
	var profile config.SourceConfig
	if profileName != "" {
		profile = cfg.Profiles.GetSourceConfig(profileName)
		if profile.Concurrency > 0 {
			cfg.ImportConcurrency = profile.Concurrency
		}
		if profile.ContinueOnError {
			cfg.ContinueOnError = true
		}
		if profile.SkipIndex {
			noIndex = true
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cfg.Verbose)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var indexer *search.Indexer
	if !noIndex {
		indexer, err = openIndexer(cfg)
		if err != nil {
			return err
		}
		defer indexer.Close()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Importing %d file(s) (concurrency: %d)...\n\n",
		len(args), cfg.ImportConcurrency)
	startTime := time.Now()

	bp := importer.NewBatchProcessor(
		importPipelineFactory(store, indexer, logger, cfg, profile),
		importer.WithConcurrency(cfg.ImportConcurrency),
		importer.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessFiles(cmd.Context(), args)
	if err != nil {
		return err
	}

	var pages, visits, failed int
	for i, report := range reports {
		status := "ok"
		if report.Err() != nil {
			status = "FAILED"
			failed++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s: %s (%d pages, %d visits, %d skipped, %d errors)\n",
			i+1, len(reports), report.Source, status,
			report.PagesImported, report.VisitsImported,
			report.SkippedUnchanged, len(report.ErrorMessages))
		pages += report.PagesImported
		visits += report.VisitsImported
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(cmd.OutOrStdout(), "\nImported %d pages and %d visits in %s\n",
		pages, visits, elapsed.Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed to import", failed, len(reports))
	}
	return nil
}

// importPipelineFactory builds the per-file pipeline, applying profile
// tags when configured.
func importPipelineFactory(
	store *database.Store,
	indexer *search.Indexer,
	logger *slog.Logger,
	cfg *config.Config,
	profile config.SourceConfig,
) func() *importer.Pipeline {
	return func() *importer.Pipeline {
		opts := []importer.Option{
			importer.WithLogger(logger),
			importer.WithContinueOnError(cfg.ContinueOnError),
		}
		if len(profile.Tags) == 0 {
			return importer.DefaultPipeline(store, indexer, opts...)
		}

		// Same step order as DefaultPipeline, with profile tags folded
		// in during normalization.
		p := importer.New(opts...)
		p.AddSteps(
			importer.NewDecodeStep(importer.WithDecodeLogger(logger)),
			importer.NewNormalizeStep(
				importer.WithNormalizeLogger(logger),
				importer.WithExtraTags(profile.Tags),
			),
			importer.NewDedupeStep(store, importer.WithDedupeLogger(logger)),
			importer.NewPersistStep(store, importer.WithPersistLogger(logger)),
		)
		if indexer != nil {
			p.AddStep(importer.NewIndexStep(indexer, importer.WithIndexLogger(logger)))
		}
		return p
	}
}
