package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultImportConcurrency is the number of export files imported in
	// parallel. Database writes serialize on a single connection, so this
	// mainly overlaps file decoding; a small value keeps memory bounded.
	DefaultImportConcurrency = 4

	// DefaultQueryLimit is the page size for listing commands (search,
	// history, bookmarks). Chosen to fit a terminal screen.
	DefaultQueryLimit = 20

	// DefaultSuggestionLimit caps tag and domain suggestions.
	// Matches the dropdown size the results are typically shown in.
	DefaultSuggestionLimit = 10

	// AppName is the application name used for XDG directory paths.
	AppName = "memex"

	// IndexDirName is the search index directory name under the data
	// directory. The index sits next to the database because it is
	// derived from it and should move with it.
	IndexDirName = "index"
)

// Config holds all configuration options for Memex.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ImportConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// DBDir is the directory holding the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/memex on Linux).
	DBDir string

	// IndexDir is the directory holding the full-text search index.
	// Defaults to an "index" subdirectory of DBDir.
	IndexDir string

	// ImportConcurrency is the number of export files imported in parallel.
	ImportConcurrency int

	// ContinueOnError makes import pipelines run remaining steps after a
	// step fails, importing whatever they can.
	ContinueOnError bool

	// QueryLimit is the page size for listing commands.
	QueryLimit int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// EnableMetrics attaches a Prometheus collector to the store so
	// operation counters and durations are recorded.
	EnableMetrics bool

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable
	// format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for reports.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .memex in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Profiles holds import source profiles loaded from the config file.
	Profiles *File
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (directories, limits).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	dbDir := XDGDataDir()
	return &Config{
		DBDir:             dbDir,
		IndexDir:          filepath.Join(dbDir, IndexDirName),
		ImportConcurrency: DefaultImportConcurrency,
		QueryLimit:        DefaultQueryLimit,
	}
}

// XDGDataDir returns the XDG data directory for Memex.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/memex
// On macOS: ~/Library/Application Support/memex
// On Windows: %LOCALAPPDATA%\memex
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for Memex.
// On Linux: ~/.config/memex
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for Memex.
// On Linux: ~/.cache/memex
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before opening the database.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.DBDir == "" {
		return ErrNoDatabaseDir
	}

	if c.ImportConcurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.QueryLimit <= 0 {
		return ErrInvalidQueryLimit
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
