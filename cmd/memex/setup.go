package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jean/Memex/internal/config"
	"github.com/jean/Memex/internal/database"
	"github.com/jean/Memex/internal/log"
	"github.com/jean/Memex/internal/metrics"
	"github.com/jean/Memex/internal/search"
)

// buildConfig creates a Config from the persistent flags and the
// configuration file, if one is found.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.DBDir, err = cmd.Flags().GetString("db")
	if err != nil {
		return nil, err
	}

	indexDir, err := cmd.Flags().GetString("index")
	if err != nil {
		return nil, err
	}
	if indexDir != "" {
		cfg.IndexDir = indexDir
	} else {
		cfg.IndexDir = filepath.Join(cfg.DBDir, config.IndexDirName)
	}

	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.EnableMetrics, err = cmd.Flags().GetBool("metrics")
	if err != nil {
		return nil, err
	}

	// Load import profiles from the config file.
	// If the user explicitly specified a path, error if not found.
	// If no path specified, silently use an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Profiles = &config.File{
			Sources: make(map[string]config.SourceConfig),
		}
	}

	return cfg, nil
}

// setupLogger creates a privacy-sanitizing structured logger and installs
// it as the default.
func setupLogger(verbose bool) *slog.Logger {
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	return logger
}

// openStore opens the database under the configured directory.
func openStore(cfg *config.Config) (*database.Store, error) {
	opts := database.DefaultOptions()
	if cfg.EnableMetrics {
		opts.Metrics = metrics.NewPrometheusCollector()
	}

	store, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// openIndexer opens the search index under the configured directory.
func openIndexer(cfg *config.Config) (*search.Indexer, error) {
	indexer, err := search.Open(cfg.IndexDir)
	if err != nil {
		return nil, err
	}
	return indexer, nil
}

// timeFlagFormats are the layouts accepted by date/time flags, tried in
// order.
var timeFlagFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeFlag parses a user-supplied time value into Unix milliseconds.
// An empty value returns 0, which query filters treat as unbounded.
func parseTimeFlag(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	for _, layout := range timeFlagFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized time %q (use RFC3339 or YYYY-MM-DD)", value)
}

// openOutput returns the report destination: the given file (creating
// parent directories) or stdout when path is empty. The caller closes the
// returned file when done is true.
func openOutput(path string) (f *os.File, done bool, err error) {
	if path == "" {
		return os.Stdout, false, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, false, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports can reveal browsing habits, so keep them owner-readable.
	f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, true, nil
}
