package database

import (
	"context"
	"fmt"

	"github.com/jean/Memex/internal/model"
)

// DefaultSuggestionLimit bounds suggestion lists when the caller passes
// no limit. Ten entries is what a filter dropdown can usefully show.
const DefaultSuggestionLimit = 10

// SuggestTags returns tag names starting with prefix, most-used first,
// with the number of pages each tag labels. An empty prefix suggests the
// most-used tags overall. The prefix is normalized the same way tag names
// are, so matching is case-insensitive.
func (s *Store) SuggestTags(ctx context.Context, prefix string, limit int) ([]model.TagCount, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	if prefix != "" {
		normalized, err := model.NormalizeTagName(prefix)
		if err != nil {
			return nil, err
		}
		prefix = normalized
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT name, COUNT(*) AS pages FROM tags
	WHERE name LIKE ? ESCAPE '\'
	GROUP BY name
	ORDER BY pages DESC, name
	LIMIT ?
	`, likePrefix(prefix), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tags: %w", err)
	}
	defer rows.Close()

	var suggestions []model.TagCount
	for rows.Next() {
		var tc model.TagCount
		if err := rows.Scan(&tc.Name, &tc.Pages); err != nil {
			return nil, fmt.Errorf("failed to scan tag suggestion: %w", err)
		}
		suggestions = append(suggestions, tc)
	}
	return suggestions, rows.Err()
}

// SuggestDomains returns domains starting with prefix, ordered by how
// many pages are stored for each, largest first. An empty prefix suggests
// the most-stored domains overall.
func (s *Store) SuggestDomains(ctx context.Context, prefix string, limit int) ([]model.DomainCount, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT domain, COUNT(*) AS pages FROM pages
	WHERE domain != '' AND domain LIKE ? ESCAPE '\'
	GROUP BY domain
	ORDER BY pages DESC, domain
	LIMIT ?
	`, likePrefix(prefix), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest domains: %w", err)
	}
	defer rows.Close()

	var suggestions []model.DomainCount
	for rows.Next() {
		var dc model.DomainCount
		if err := rows.Scan(&dc.Domain, &dc.Pages); err != nil {
			return nil, fmt.Errorf("failed to scan domain suggestion: %w", err)
		}
		suggestions = append(suggestions, dc)
	}
	return suggestions, rows.Err()
}
