package database

import (
	"context"
	"fmt"

	"github.com/jean/Memex/internal/model"
)

// AddVisit records a visit event for a stored page.
// A visit with the same [time+url] key as an existing one is ignored, so
// replaying an import is safe. Returns ErrPageNotFound when no page
// record exists for the URL.
func (s *Store) AddVisit(ctx context.Context, visit model.Visit) error {
	exists, err := s.PageExists(ctx, visit.URL)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrPageNotFound, visit.URL)
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT OR IGNORE INTO visits (time, url, duration_ms, scroll_px)
	VALUES (?, ?, ?, ?)
	`, visit.Time, visit.URL, visit.DurationMS, visit.ScrollPx)
	if err != nil {
		return fmt.Errorf("failed to add visit: %w", err)
	}
	return nil
}

// UpdateVisit sets the duration and scroll depth of an existing visit,
// identified by its [time+url] key. Updating a missing visit is a no-op
// and returns false.
func (s *Store) UpdateVisit(ctx context.Context, timeMS int64, url string, durationMS, scrollPx int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
	UPDATE visits SET duration_ms = ?, scroll_px = ?
	WHERE time = ? AND url = ?
	`, durationMS, scrollPx, timeMS, url)
	if err != nil {
		return false, fmt.Errorf("failed to update visit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// VisitsForPage returns all visits of a URL, most recent first.
func (s *Store) VisitsForPage(ctx context.Context, url string) ([]model.Visit, error) {
	return s.queryVisits(ctx, `
	SELECT time, url, duration_ms, scroll_px FROM visits
	WHERE url = ?
	ORDER BY time DESC
	`, url)
}

// VisitsBetween returns visits inside the half-open window [from, to),
// most recent first, across all pages. A zero bound is unbounded on that
// side. Limit <= 0 means no limit.
func (s *Store) VisitsBetween(ctx context.Context, from, to int64, limit int) ([]model.Visit, error) {
	query := `SELECT time, url, duration_ms, scroll_px FROM visits WHERE 1=1`
	args := make([]any, 0, 3)

	if from > 0 {
		query += " AND time >= ?"
		args = append(args, from)
	}
	if to > 0 {
		query += " AND time < ?"
		args = append(args, to)
	}
	query += " ORDER BY time DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return s.queryVisits(ctx, query, args...)
}

// DeleteVisitsBefore removes all visits older than cutoff (Unix
// milliseconds) and returns how many were removed. Page records are kept;
// use DeletePages to drop pages entirely.
func (s *Store) DeleteVisitsBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM visits WHERE time < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete visits: %w", err)
	}
	return res.RowsAffected()
}

// queryVisits runs a visit query and scans the rows.
func (s *Store) queryVisits(ctx context.Context, query string, args ...any) ([]model.Visit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	var visits []model.Visit
	for rows.Next() {
		var v model.Visit
		if err := rows.Scan(&v.Time, &v.URL, &v.DurationMS, &v.ScrollPx); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
