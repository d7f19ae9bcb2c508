// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"database/sql"
	"fmt"
)

// Store tracks per-owner storage accounting. Like the form-level caches,
// the profile byte count is denormalized and reconciled by deltas.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ensure creates the profile row if it does not exist yet.
func (s *Store) Ensure(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO profiles (username) VALUES (?)`, username)
	if err != nil {
		return fmt.Errorf("ensure profile %q: %w", username, err)
	}
	return nil
}

// AddStorageBytes adjusts the owner's storage cache by delta, floored at
// zero for negative deltas.
func (s *Store) AddStorageBytes(ctx context.Context, username string, delta int64) error {
	if err := s.Ensure(ctx, username); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET attachment_storage_bytes = max(attachment_storage_bytes + ?, 0)
		WHERE username = ?`, delta, username)
	if err != nil {
		return fmt.Errorf("update profile %q storage: %w", username, err)
	}
	return nil
}

// StorageBytes returns the owner's current storage cache. A missing
// profile reads as zero.
func (s *Store) StorageBytes(ctx context.Context, username string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(
			(SELECT attachment_storage_bytes FROM profiles WHERE username = ?), 0)`,
		username).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("profile %q storage: %w", username, err)
	}
	return n, nil
}
