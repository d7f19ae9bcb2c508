// internal/app/store/forms/formstore.go
package formstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/datawell/datawell/internal/domain/models"
)

// Store provides relational access to forms. The relational side is the
// source of truth for form existence, ownership, and the denormalized
// submission-count / storage-bytes caches.
type Store struct {
	db *sql.DB
}

var ErrNotFound = errors.New("form not found")

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const formColumns = `id, owner_username, id_string, title, shared, shared_data,
	submission_count, attachment_storage_bytes, date_created, date_modified`

// Create inserts a new form and its tags, setting timestamps.
func (s *Store) Create(ctx context.Context, f models.Form) (models.Form, error) {
	now := time.Now().UTC()
	f.DateCreated = now
	f.DateModified = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO forms (owner_username, id_string, title, shared, shared_data,
			submission_count, attachment_storage_bytes, date_created, date_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.OwnerUsername, f.IDString, f.Title, f.Shared, f.SharedData,
		f.SubmissionCount, f.AttachmentStorageBytes, f.DateCreated, f.DateModified)
	if err != nil {
		return models.Form{}, fmt.Errorf("insert form: %w", err)
	}
	f.ID, err = res.LastInsertId()
	if err != nil {
		return models.Form{}, fmt.Errorf("form id: %w", err)
	}

	if len(f.Tags) > 0 {
		if err := s.AddTags(ctx, f.ID, f.Tags); err != nil {
			return models.Form{}, err
		}
	}
	return f, nil
}

// GetByID returns a form with its tags, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (models.Form, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+formColumns+` FROM forms WHERE id = ?`, id)
	f, err := scanForm(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Form{}, ErrNotFound
		}
		return models.Form{}, fmt.Errorf("get form %d: %w", id, err)
	}
	if f.Tags, err = s.tags(ctx, f.ID); err != nil {
		return models.Form{}, err
	}
	return f, nil
}

// ListAccessible returns forms the requester owns plus publicly shared
// ones, optionally narrowed to forms carrying at least one of the given
// tags.
func (s *Store) ListAccessible(ctx context.Context, requester string, tags []string) ([]models.Form, error) {
	query := `SELECT ` + formColumns + ` FROM forms
		WHERE (owner_username = ? OR shared = 1 OR shared_data = 1)`
	args := []any{requester}

	if len(tags) > 0 {
		query += ` AND EXISTS (SELECT 1 FROM form_tags
			WHERE form_tags.form_id = forms.id
			AND form_tags.tag IN (` + placeholders(len(tags)) + `))`
		for _, tag := range tags {
			args = append(args, tag)
		}
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	var out []models.Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// AddTags attaches tags to a form, ignoring duplicates.
func (s *Store) AddTags(ctx context.Context, formID int64, tags []string) error {
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO form_tags (form_id, tag) VALUES (?, ?)`,
			formID, tag); err != nil {
			return fmt.Errorf("tag form %d: %w", formID, err)
		}
	}
	return nil
}

// ApplyDeletion reconciles the form's cached counters after submissions
// have been removed: the submission count drops by removedCount and the
// storage cache by removedBytes, both floored at zero. One UPDATE per bulk
// mutation replaces the per-row recomputation that stays suspended during
// bulk deletes.
func (s *Store) ApplyDeletion(ctx context.Context, formID, removedCount, removedBytes int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE forms
		SET submission_count = max(submission_count - ?, 0),
		    attachment_storage_bytes = max(attachment_storage_bytes - ?, 0),
		    date_modified = ?
		WHERE id = ?`,
		removedCount, removedBytes, time.Now().UTC(), formID)
	if err != nil {
		return fmt.Errorf("apply deletion to form %d: %w", formID, err)
	}
	return nil
}

// ApplySubmission bumps the cached counters for a newly ingested
// submission and its attachment bytes.
func (s *Store) ApplySubmission(ctx context.Context, formID, addedBytes int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE forms
		SET submission_count = submission_count + 1,
		    attachment_storage_bytes = attachment_storage_bytes + ?,
		    date_modified = ?
		WHERE id = ?`,
		addedBytes, time.Now().UTC(), formID)
	if err != nil {
		return fmt.Errorf("apply submission to form %d: %w", formID, err)
	}
	return nil
}

func (s *Store) tags(ctx context.Context, formID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM form_tags WHERE form_id = ? ORDER BY tag`, formID)
	if err != nil {
		return nil, fmt.Errorf("form %d tags: %w", formID, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (models.Form, error) {
	var f models.Form
	err := row.Scan(&f.ID, &f.OwnerUsername, &f.IDString, &f.Title,
		&f.Shared, &f.SharedData, &f.SubmissionCount,
		&f.AttachmentStorageBytes, &f.DateCreated, &f.DateModified)
	return f, err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
