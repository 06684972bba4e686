package config

// SourceConfig holds per-source import configuration. Exports from
// different browsers or machines often want different handling, so each
// named source can override the defaults.
type SourceConfig struct {
	// Tags are attached to every page imported from this source, on top
	// of the tags carried by the export records themselves.
	Tags []string `yaml:"tags,omitempty"`

	// Concurrency overrides the global import concurrency for this source.
	// If zero, the global ImportConcurrency is used.
	Concurrency int `yaml:"concurrency,omitempty"`

	// ContinueOnError makes the import pipeline run remaining steps after
	// a step fails for this source.
	ContinueOnError bool `yaml:"continueOnError,omitempty"`

	// SkipIndex disables full-text indexing for this source.
	// Useful for bulk historical imports that are re-indexed afterwards.
	SkipIndex bool `yaml:"skipIndex,omitempty"`
}

// File represents the structure of the .memex configuration file.
type File struct {
	// Sources maps source names to their import configurations.
	// Names are free-form labels chosen by the user (e.g. "laptop",
	// "firefox-2024").
	Sources map[string]SourceConfig `yaml:"sources,omitempty"`

	// Defaults contains default source configuration applied to all
	// sources unless overridden in the source-specific configuration.
	Defaults SourceConfig `yaml:"defaults,omitempty"`
}

// GetSourceConfig returns the configuration for a named import source.
// It merges the source-specific configuration with defaults.
func (cf *File) GetSourceConfig(name string) SourceConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with source-specific configuration if present
	if sourceConfig, ok := cf.Sources[name]; ok {
		if len(sourceConfig.Tags) > 0 {
			result.Tags = sourceConfig.Tags
		}
		if sourceConfig.Concurrency != 0 {
			result.Concurrency = sourceConfig.Concurrency
		}
		if sourceConfig.ContinueOnError {
			result.ContinueOnError = true
		}
		if sourceConfig.SkipIndex {
			result.SkipIndex = true
		}
	}

	return result
}
