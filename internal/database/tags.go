package database

import (
	"context"
	"fmt"

	"github.com/jean/Memex/internal/model"
)

// AddTag labels a stored page with a tag name. The name is normalized
// before writing; tagging a page twice with the same name is a no-op.
// Returns ErrPageNotFound when no page record exists for the URL and
// model.ErrInvalidTag for unusable names.
func (s *Store) AddTag(ctx context.Context, name, url string) error {
	name, err := model.NormalizeTagName(name)
	if err != nil {
		return err
	}

	exists, err := s.PageExists(ctx, url)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrPageNotFound, url)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tags (name, url) VALUES (?, ?)`, name, url)
	if err != nil {
		return fmt.Errorf("failed to add tag: %w", err)
	}
	return nil
}

// RemoveTag removes a tag from a page. The name is normalized before
// matching. Removing an absent tag is a no-op and returns false.
func (s *Store) RemoveTag(ctx context.Context, name, url string) (bool, error) {
	name, err := model.NormalizeTagName(name)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tags WHERE name = ? AND url = ?`, name, url)
	if err != nil {
		return false, fmt.Errorf("failed to remove tag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TagsForPage returns the tag names on a page, sorted.
func (s *Store) TagsForPage(ctx context.Context, url string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM tags WHERE url = ? ORDER BY name`, url)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// PagesForTag returns the URLs carrying a tag, sorted.
// The name is normalized before matching.
func (s *Store) PagesForTag(ctx context.Context, name string) ([]string, error) {
	name, err := model.NormalizeTagName(name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT url FROM tags WHERE name = ? ORDER BY url`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query tagged pages: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan tagged page: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}
