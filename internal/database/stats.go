package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jean/Memex/internal/model"
)

// statsTopN is how many domains and tags the stats report ranks.
const statsTopN = 10

// Stats summarizes the database contents for reporting: row counts per
// table plus the most-stored domains and most-used tags. The counts are
// also published to the metrics collector as storage gauges.
func (s *Store) Stats(ctx context.Context) (*model.StatsReport, error) {
	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	report := &model.StatsReport{
		GeneratedAt:   time.Now(),
		SchemaVersion: version,
	}

	counts := []struct {
		query string
		kind  string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM pages`, "pages", &report.PageCount},
		{`SELECT COUNT(*) FROM visits`, "visits", &report.VisitCount},
		{`SELECT COUNT(*) FROM bookmarks`, "bookmarks", &report.BookmarkCount},
		{`SELECT COUNT(DISTINCT name) FROM tags`, "tags", &report.TagCount},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.kind, err)
		}
		s.metrics.SetStorageCount(ctx, c.kind, int64(*c.dst))
	}

	if report.TopDomains, err = s.SuggestDomains(ctx, "", statsTopN); err != nil {
		return nil, err
	}
	if report.TopTags, err = s.SuggestTags(ctx, "", statsTopN); err != nil {
		return nil, err
	}

	return report, nil
}
