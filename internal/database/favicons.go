package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jean/Memex/internal/model"
)

// PutFavicon stores or replaces the favicon for a hostname and points the
// favicon_hostname of every stored page on that host at it.
func (s *Store) PutFavicon(ctx context.Context, favicon model.Favicon) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin favicon write: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO favicons (hostname, data) VALUES (?, ?)
	ON CONFLICT(hostname) DO UPDATE SET
		data = excluded.data,
		updated_at = CURRENT_TIMESTAMP
	`, favicon.Hostname, favicon.Data); err != nil {
		return fmt.Errorf("failed to put favicon: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE pages SET favicon_hostname = ? WHERE hostname = ?`,
		favicon.Hostname, favicon.Hostname); err != nil {
		return fmt.Errorf("failed to link favicon: %w", err)
	}

	return tx.Commit()
}

// GetFavicon retrieves the favicon for a hostname.
// Returns (nil, nil) when no favicon is stored for the host.
func (s *Store) GetFavicon(ctx context.Context, hostname string) (*model.Favicon, error) {
	var favicon model.Favicon
	var updatedAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT hostname, data, updated_at FROM favicons WHERE hostname = ?`,
		hostname).Scan(&favicon.Hostname, &favicon.Data, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get favicon: %w", err)
	}

	favicon.UpdatedAt = parseTimestamp(updatedAt)
	return &favicon, nil
}
