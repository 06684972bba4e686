package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jean/Memex/internal/model"
)

// UpsertPage inserts or updates a page record.
// The URL is the key: a second write to the same URL replaces the mutable
// columns and bumps updated_at, while created_at keeps its original value.
// A write with an empty favicon hostname keeps the stored one, so saving a
// page without icon data never unlinks its favicon.
func (s *Store) UpsertPage(ctx context.Context, page *model.Page) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "upsert_page", start, err) }()

	query := `
	INSERT INTO pages (url, title, full_text, hostname, domain, screenshot_uri, favicon_hostname, content_hash)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		title = excluded.title,
		full_text = excluded.full_text,
		hostname = excluded.hostname,
		domain = excluded.domain,
		screenshot_uri = excluded.screenshot_uri,
		favicon_hostname = COALESCE(NULLIF(excluded.favicon_hostname, ''), favicon_hostname),
		content_hash = excluded.content_hash,
		updated_at = CURRENT_TIMESTAMP
	`

	_, err = s.db.ExecContext(ctx, query,
		page.URL,
		page.Title,
		page.Text,
		page.Hostname,
		page.Domain,
		page.ScreenshotURI,
		page.FaviconHostname,
		page.Hash,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}

	return nil
}

// GetPage retrieves a page by its canonical URL.
// Returns (nil, nil) when no page exists for the URL.
func (s *Store) GetPage(ctx context.Context, url string) (*model.Page, error) {
	query := `
	SELECT url, title, full_text, hostname, domain, screenshot_uri, favicon_hostname, content_hash, created_at, updated_at
	FROM pages
	WHERE url = ?
	`

	var page model.Page
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, query, url).Scan(
		&page.URL,
		&page.Title,
		&page.Text,
		&page.Hostname,
		&page.Domain,
		&page.ScreenshotURI,
		&page.FaviconHostname,
		&page.Hash,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	page.CreatedAt = parseTimestamp(createdAt)
	page.UpdatedAt = parseTimestamp(updatedAt)

	return &page, nil
}

// PageExists reports whether a page record exists for the URL.
func (s *Store) PageExists(ctx context.Context, url string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pages WHERE url = ?`, url).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check page existence: %w", err)
	}
	return count > 0, nil
}

// FindPages returns the pages matching the query, ordered by latest visit
// time (most recently visited first), then URL for a stable order.
// An empty query matches all pages.
func (s *Store) FindPages(ctx context.Context, q PageQuery) (pages []model.Page, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "find_pages", start, err) }()

	where, args := q.build()

	query := `
	SELECT p.url, p.title, p.full_text, p.hostname, p.domain, p.screenshot_uri, p.favicon_hostname, p.content_hash, p.created_at, p.updated_at
	FROM pages p
	LEFT JOIN (SELECT url, MAX(time) AS last_visit FROM visits GROUP BY url) lv ON lv.url = p.url
	` + where + `
	ORDER BY COALESCE(lv.last_visit, 0) DESC, p.url
	`

	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	} else if q.Offset > 0 {
		// SQLite only accepts OFFSET after a LIMIT; -1 means unlimited.
		query += " LIMIT -1"
	}
	if q.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var page model.Page
		var createdAt, updatedAt string

		if err := rows.Scan(
			&page.URL,
			&page.Title,
			&page.Text,
			&page.Hostname,
			&page.Domain,
			&page.ScreenshotURI,
			&page.FaviconHostname,
			&page.Hash,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}

		page.CreatedAt = parseTimestamp(createdAt)
		page.UpdatedAt = parseTimestamp(updatedAt)
		pages = append(pages, page)
	}

	return pages, rows.Err()
}

// CountPages returns the number of pages matching the query.
// Limit and Offset are ignored for counting.
func (s *Store) CountPages(ctx context.Context, q PageQuery) (int, error) {
	where, args := q.build()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pages p `+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

// DeletePages removes all pages matching the query together with their
// visits, tags, and bookmarks, and clears favicons no page references
// anymore. Returns the number of deleted pages; a query matching nothing
// deletes nothing and returns 0.
func (s *Store) DeletePages(ctx context.Context, q PageQuery) (deleted int64, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "delete_pages", start, err) }()

	where, args := q.build()
	match := `SELECT p.url FROM pages p ` + where

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// Associations first, pages last, so a partial failure never leaves
	// orphaned association rows behind.
	for _, table := range []string{"visits", "tags", "bookmarks"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE url IN (%s)`, table, match), args...); err != nil {
			return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM pages WHERE url IN (`+match+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pages: %w", err)
	}
	deleted, err = res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM favicons
		WHERE hostname NOT IN (SELECT DISTINCT favicon_hostname FROM pages WHERE favicon_hostname != '')
	`); err != nil {
		return 0, fmt.Errorf("failed to prune favicons: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}
