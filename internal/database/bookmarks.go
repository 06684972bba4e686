package database

import (
	"context"
	"fmt"

	"github.com/jean/Memex/internal/model"
)

// AddBookmark marks a stored page as bookmarked. Bookmarking an already
// bookmarked page updates the bookmark time. Returns ErrPageNotFound when
// no page record exists for the URL.
func (s *Store) AddBookmark(ctx context.Context, bookmark model.Bookmark) error {
	exists, err := s.PageExists(ctx, bookmark.URL)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrPageNotFound, bookmark.URL)
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO bookmarks (url, time) VALUES (?, ?)
	ON CONFLICT(url) DO UPDATE SET time = excluded.time
	`, bookmark.URL, bookmark.Time)
	if err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}
	return nil
}

// RemoveBookmark removes the bookmark from a page.
// Removing a bookmark that doesn't exist is a no-op and returns false.
func (s *Store) RemoveBookmark(ctx context.Context, url string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE url = ?`, url)
	if err != nil {
		return false, fmt.Errorf("failed to remove bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsBookmarked reports whether a page is bookmarked.
func (s *Store) IsBookmarked(ctx context.Context, url string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookmarks WHERE url = ?`, url).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return count > 0, nil
}

// ListBookmarks returns bookmarks ordered by bookmark time, most recent
// first. Limit <= 0 means no limit.
func (s *Store) ListBookmarks(ctx context.Context, limit, offset int) ([]model.Bookmark, error) {
	query := `SELECT url, time FROM bookmarks ORDER BY time DESC`
	args := make([]any, 0, 2)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
		if offset > 0 {
			query += " OFFSET ?"
			args = append(args, offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []model.Bookmark
	for rows.Next() {
		var b model.Bookmark
		if err := rows.Scan(&b.URL, &b.Time); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}
