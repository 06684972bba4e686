package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jean/Memex/internal/metrics"
	"github.com/jean/Memex/internal/model"
)

// setupTestStore creates a temporary store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// mustPage inserts a page and fails the test on error.
func mustPage(t *testing.T, s *Store, rawURL, title, text string) *model.Page {
	t.Helper()

	page, err := model.NewPage(rawURL, title, text)
	if err != nil {
		t.Fatalf("failed to build page: %v", err)
	}
	if err := s.UpsertPage(context.Background(), page); err != nil {
		t.Fatalf("failed to upsert page: %v", err)
	}
	return page
}

// TestOpen tests store opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		s, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer s.Close()

		if _, err := os.Stat(filepath.Join(dbDir, DBFileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent-db")
		_, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected informative error, got %q", err.Error())
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("database directory should not have been created")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "existing-db")

		s1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		mustPage(t, s1, "https://example.com/persist", "Persist", "body")
		s1.Close()

		s2, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open existing store: %v", err)
		}
		defer s2.Close()

		page, err := s2.GetPage(context.Background(), "https://example.com/persist")
		if err != nil {
			t.Fatalf("failed to get page: %v", err)
		}
		if page == nil {
			t.Error("expected page to persist across reopen")
		}
	})
}

// TestMigrations tests schema versioning behavior.
func TestMigrations(t *testing.T) {
	t.Parallel()

	t.Run("fresh database reaches latest version", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)
		version, err := s.SchemaVersion(context.Background())
		if err != nil {
			t.Fatalf("failed to read schema version: %v", err)
		}
		if version != LatestSchemaVersion() {
			t.Errorf("expected version %d, got %d", LatestSchemaVersion(), version)
		}
	})

	t.Run("every version is recorded", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)

		var count int
		err := s.db.QueryRowContext(context.Background(),
			`SELECT COUNT(*) FROM schema_version`).Scan(&count)
		if err != nil {
			t.Fatalf("failed to count versions: %v", err)
		}
		if count != len(migrations) {
			t.Errorf("expected %d recorded versions, got %d", len(migrations), count)
		}
	})

	t.Run("reopen applies nothing new", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		s1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		s1.Close()

		s2, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer s2.Close()

		version, err := s2.SchemaVersion(context.Background())
		if err != nil {
			t.Fatalf("failed to read schema version: %v", err)
		}
		if version != LatestSchemaVersion() {
			t.Errorf("expected version %d after reopen, got %d", LatestSchemaVersion(), version)
		}
	})

	t.Run("domain backfill rewrites www rows", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)
		ctx := context.Background()

		// Simulate a row written before the backfill existed.
		_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (url, hostname, domain) VALUES ('https://www.old.com/', 'www.old.com', 'www.old.com')
		`)
		if err != nil {
			t.Fatalf("failed to insert legacy row: %v", err)
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatalf("failed to begin tx: %v", err)
		}
		if err := backfillDomains(ctx, tx); err != nil {
			t.Fatalf("backfill failed: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("commit failed: %v", err)
		}

		var domain string
		err = s.db.QueryRowContext(ctx,
			`SELECT domain FROM pages WHERE url = 'https://www.old.com/'`).Scan(&domain)
		if err != nil {
			t.Fatalf("failed to read domain: %v", err)
		}
		if domain != "old.com" {
			t.Errorf("expected backfilled domain 'old.com', got %q", domain)
		}
	})
}

// TestDefaultOptions tests the default options values.
func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.CreateIfNotExists {
		t.Error("expected CreateIfNotExists to be true by default")
	}
	if !opts.EnableWAL {
		t.Error("expected EnableWAL to be true by default")
	}
}

// TestMetricsCollectorObservesOperations verifies that a configured
// collector sees the store's operations.
func TestMetricsCollectorObservesOperations(t *testing.T) {
	t.Parallel()

	collector := metrics.NewPrometheusCollector()
	opts := DefaultOptions()
	opts.Metrics = collector

	s, err := Open(t.TempDir(), opts)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	mustPage(t, s, "https://example.com/metered", "Metered", "text")
	if _, err := s.FindPages(context.Background(), PageQuery{}); err != nil {
		t.Fatalf("failed to find pages: %v", err)
	}

	// Two distinct operations ran, so two series must exist.
	count, err := testutil.GatherAndCount(collector.Registry(),
		"memex_operations_total")
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 operation series (upsert_page, find_pages), got %d", count)
	}
}
