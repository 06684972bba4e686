package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoDatabaseDir is returned when no database directory is configured.
	// Every command needs somewhere to open or create the database.
	ErrNoDatabaseDir = errors.New("no database directory: set --db or configure dbDir")

	// ErrInvalidConcurrency is returned when the import concurrency is not
	// positive. Zero concurrent imports would mean no importing at all.
	ErrInvalidConcurrency = errors.New("invalid import concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidQueryLimit is returned when the query page size is not
	// positive. Listing commands need at least one row per page.
	ErrInvalidQueryLimit = errors.New("invalid query limit: must be positive")
)
