package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migration describes one schema version: the statements that create or
// alter tables and indexes, plus an optional data backfill that runs in
// the same transaction after the statements succeed.
type migration struct {
	// version is the schema version this migration produces.
	version int

	// statements are executed in order.
	statements []string

	// backfill, when non-nil, migrates existing rows to the new shape.
	backfill func(ctx context.Context, tx *sql.Tx) error
}

// migrations is the ordered history of the schema. Append-only: released
// versions are never edited, new changes get a new version.
var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS pages (
				url              TEXT PRIMARY KEY,
				title            TEXT NOT NULL DEFAULT '',
				full_text        TEXT NOT NULL DEFAULT '',
				hostname         TEXT NOT NULL DEFAULT '',
				domain           TEXT NOT NULL DEFAULT '',
				screenshot_uri   TEXT NOT NULL DEFAULT '',
				content_hash     TEXT NOT NULL DEFAULT '',
				created_at       DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at       DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_pages_domain ON pages(domain)`,
			`CREATE INDEX IF NOT EXISTS idx_pages_title ON pages(title)`,

			// Visits are keyed by [time+url]: the same URL may be visited
			// many times, one row per timestamp.
			`CREATE TABLE IF NOT EXISTS visits (
				time INTEGER NOT NULL,
				url  TEXT NOT NULL,
				PRIMARY KEY (time, url)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_visits_url ON visits(url)`,

			`CREATE TABLE IF NOT EXISTS bookmarks (
				url  TEXT PRIMARY KEY,
				time INTEGER NOT NULL
			)`,

			// Tags are keyed by [name+url]: one row per label per page.
			`CREATE TABLE IF NOT EXISTS tags (
				name TEXT NOT NULL,
				url  TEXT NOT NULL,
				PRIMARY KEY (name, url)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_tags_url ON tags(url)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS favicons (
				hostname   TEXT PRIMARY KEY,
				data       BLOB,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`ALTER TABLE pages ADD COLUMN favicon_hostname TEXT NOT NULL DEFAULT ''`,
			`CREATE INDEX IF NOT EXISTS idx_pages_hostname ON pages(hostname)`,
		},
	},
	{
		version: 3,
		statements: []string{
			`ALTER TABLE visits ADD COLUMN duration_ms INTEGER NOT NULL DEFAULT 0`,
			`ALTER TABLE visits ADD COLUMN scroll_px INTEGER NOT NULL DEFAULT 0`,
			`CREATE INDEX IF NOT EXISTS idx_tags_name ON tags(name)`,
		},
		// Early writers stored the raw hostname in the domain column.
		backfill: backfillDomains,
	},
}

// backfillDomains rewrites pages.domain for rows where the stored domain
// still carries a leading "www." label.
func backfillDomains(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE pages SET domain = substr(domain, 5) WHERE domain LIKE 'www.%'`)
	return err
}

// migrate brings the schema up to the latest version.
// Each pending migration runs in its own transaction and records its
// version in schema_version, so a failure leaves the database at the last
// fully-applied version.
func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS schema_version (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("failed to apply schema version %d: %w", m.version, err)
		}
	}

	return nil
}

// applyMigration runs one migration transactionally.
func (s *Store) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement failed: %w", err)
		}
	}

	if m.backfill != nil {
		if err := m.backfill(ctx, tx); err != nil {
			return fmt.Errorf("backfill failed: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version) VALUES (?)`, m.version); err != nil {
		return err
	}

	return tx.Commit()
}

// SchemaVersion returns the highest schema version applied to the
// database, or 0 for a fresh database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(version.Int64), nil
}

// LatestSchemaVersion returns the schema version this build writes.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}
