package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	c := NewConfig()
	if c.DBDir == "" {
		t.Error("DBDir should default to the XDG data directory")
	}
	if c.IndexDir != filepath.Join(c.DBDir, IndexDirName) {
		t.Errorf("IndexDir = %q, want subdirectory of DBDir", c.IndexDir)
	}
	if c.ImportConcurrency != DefaultImportConcurrency {
		t.Errorf("ImportConcurrency = %d, want %d", c.ImportConcurrency, DefaultImportConcurrency)
	}
	if c.QueryLimit != DefaultQueryLimit {
		t.Errorf("QueryLimit = %d, want %d", c.QueryLimit, DefaultQueryLimit)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "missing database directory",
			mutate:  func(c *Config) { c.DBDir = "" },
			wantErr: ErrNoDatabaseDir,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.ImportConcurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "zero query limit",
			mutate:  func(c *Config) { c.QueryLimit = 0 },
			wantErr: ErrInvalidQueryLimit,
		},
		{
			name: "conflicting report formats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := NewConfig()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
		"cache":  XDGCacheDir(),
	} {
		if !strings.HasSuffix(dir, AppName) {
			t.Errorf("%s dir %q should end with %q", name, dir, AppName)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	content := `
defaults:
  continueOnError: true
sources:
  laptop:
    tags: [work, laptop]
    concurrency: 2
  archive:
    skipIndex: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error: %v", err)
	}

	laptop := cf.GetSourceConfig("laptop")
	if got, want := len(laptop.Tags), 2; got != want {
		t.Errorf("laptop tags = %v, want %d entries", laptop.Tags, want)
	}
	if laptop.Concurrency != 2 {
		t.Errorf("laptop concurrency = %d, want 2", laptop.Concurrency)
	}
	if !laptop.ContinueOnError {
		t.Error("laptop should inherit continueOnError from defaults")
	}

	archive := cf.GetSourceConfig("archive")
	if !archive.SkipIndex {
		t.Error("archive should have skipIndex set")
	}

	unknown := cf.GetSourceConfig("unknown")
	if !unknown.ContinueOnError {
		t.Error("unknown source should fall back to defaults")
	}
	if unknown.SkipIndex {
		t.Error("unknown source should not inherit source-specific settings")
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigFileInvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte("sources: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Error("expected YAML error")
	}
}

func TestFindConfigFile(t *testing.T) {
	// Not parallel: changes the working directory.
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	if err := os.WriteFile(path, []byte("sources: {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// Explicit path wins.
	if got := FindConfigFile(path); got != path {
		t.Errorf("FindConfigFile(%q) = %q, want the path itself", path, got)
	}

	// Explicit but missing path finds nothing.
	if got := FindConfigFile(filepath.Join(dir, "missing")); got != "" {
		t.Errorf("FindConfigFile(missing) = %q, want empty", got)
	}

	// Current directory is searched when no path given.
	t.Chdir(dir)
	if got := FindConfigFile(""); got != path {
		t.Errorf("FindConfigFile(\"\") = %q, want %q", got, path)
	}
}
