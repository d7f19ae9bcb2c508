// internal/app/store/submissions/submissionstore.go
package submissionstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/datawell/datawell/internal/domain/models"
)

// Store provides relational access to submissions, their attachments, and
// their tags. Affected-row counts reported by this store are the counts of
// record for every dual-store mutation.
type Store struct {
	db *sql.DB
}

var ErrNotFound = errors.New("submission not found")

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Filter is the store-native descriptor for a set of one form's
// submissions. IDs nil means every submission in the form; an empty,
// non-nil slice matches nothing.
type Filter struct {
	FormID int64
	IDs    []int64
}

func (f Filter) where() (string, []any) {
	clause := "form_id = ?"
	args := []any{f.FormID}
	switch {
	case f.IDs == nil:
	case len(f.IDs) == 0:
		// Non-nil empty id set matches nothing.
		clause += " AND 1 = 0"
	default:
		clause += " AND id IN (" + placeholders(len(f.IDs)) + ")"
		for _, id := range f.IDs {
			args = append(args, id)
		}
	}
	return clause, args
}

// Create inserts a submission row, generating a UUID when the caller did
// not supply one.
func (s *Store) Create(ctx context.Context, sub models.Submission) (models.Submission, error) {
	if sub.UUID == "" {
		sub.UUID = uuid.NewString()
	}
	if sub.DateCreated.IsZero() {
		sub.DateCreated = time.Now().UTC()
	}

	var vsUID, vsBy any
	var vsAt any
	if vs := sub.ValidationStatus; vs != nil {
		vsUID, vsBy, vsAt = vs.UID, vs.ByWhom, vs.Timestamp
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (form_id, uuid, xml, validation_status_uid,
			validation_status_by, validation_status_at, date_created)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.FormID, sub.UUID, sub.XML, vsUID, vsBy, vsAt, sub.DateCreated)
	if err != nil {
		return models.Submission{}, fmt.Errorf("insert submission: %w", err)
	}
	sub.ID, err = res.LastInsertId()
	if err != nil {
		return models.Submission{}, fmt.Errorf("submission id: %w", err)
	}

	for i := range sub.Attachments {
		sub.Attachments[i].SubmissionID = sub.ID
		a, err := s.AddAttachment(ctx, sub.Attachments[i])
		if err != nil {
			return models.Submission{}, err
		}
		sub.Attachments[i] = a
	}
	return sub, nil
}

// GetForForm returns the submission only if it belongs to the given form.
func (s *Store) GetForForm(ctx context.Context, id, formID int64) (models.Submission, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, form_id, uuid, xml, validation_status_uid,
			validation_status_by, validation_status_at, date_created
		FROM submissions WHERE id = ? AND form_id = ?`, id, formID)

	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Submission{}, ErrNotFound
		}
		return models.Submission{}, fmt.Errorf("get submission %d: %w", id, err)
	}
	if sub.Tags, err = s.Tags(ctx, sub.ID); err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// IDsWhere returns the ids of matching submissions.
func (s *Store) IDsWhere(ctx context.Context, f Filter) ([]int64, error) {
	clause, args := f.where()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM submissions WHERE `+clause+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list submission ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AttachmentBytesWhere sums attachment file sizes over the matching
// submissions. Bulk delete measures this before removing the rows so the
// storage-bytes caches can be decremented afterwards.
func (s *Store) AttachmentBytesWhere(ctx context.Context, f Filter) (int64, error) {
	clause, args := f.where()
	var total int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(file_size), 0) FROM attachments
		WHERE submission_id IN (SELECT id FROM submissions WHERE `+clause+`)`,
		args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum attachment bytes: %w", err)
	}
	return total, nil
}

// DeleteWhere removes matching submissions (attachments and tags cascade)
// and returns the number of rows deleted. Zero is not an error.
func (s *Store) DeleteWhere(ctx context.Context, f Filter) (int64, error) {
	clause, args := f.where()
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM submissions WHERE `+clause, args...)
	if err != nil {
		return 0, fmt.Errorf("delete submissions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete submissions count: %w", err)
	}
	return n, nil
}

// SetValidationStatusWhere updates the inline validation status on
// matching rows. A nil status clears it. Returns the affected-row count.
func (s *Store) SetValidationStatusWhere(ctx context.Context, f Filter, vs *models.ValidationStatus) (int64, error) {
	clause, args := f.where()

	var uid, by, at any
	if vs != nil {
		uid, by, at = vs.UID, vs.ByWhom, vs.Timestamp
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE submissions
		SET validation_status_uid = ?, validation_status_by = ?,
		    validation_status_at = ?
		WHERE `+clause,
		append([]any{uid, by, at}, args...)...)
	if err != nil {
		return 0, fmt.Errorf("update validation status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update validation status count: %w", err)
	}
	return n, nil
}

// AddAttachment records an attachment for a submission.
func (s *Store) AddAttachment(ctx context.Context, a models.Attachment) (models.Attachment, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attachments (submission_id, media_file, file_size) VALUES (?, ?, ?)`,
		a.SubmissionID, a.MediaFile, a.FileSize)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("insert attachment: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return models.Attachment{}, fmt.Errorf("attachment id: %w", err)
	}
	return a, nil
}

// AddTags attaches labels to a submission, ignoring duplicates.
func (s *Store) AddTags(ctx context.Context, submissionID int64, tags []string) error {
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO submission_tags (submission_id, tag) VALUES (?, ?)`,
			submissionID, tag); err != nil {
			return fmt.Errorf("tag submission %d: %w", submissionID, err)
		}
	}
	return nil
}

// RemoveTag deletes one label. Returns true when the label existed.
func (s *Store) RemoveTag(ctx context.Context, submissionID int64, tag string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM submission_tags WHERE submission_id = ? AND tag = ?`,
		submissionID, tag)
	if err != nil {
		return false, fmt.Errorf("remove tag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Tags returns a submission's labels in lexical order.
func (s *Store) Tags(ctx context.Context, submissionID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM submission_tags WHERE submission_id = ? ORDER BY tag`,
		submissionID)
	if err != nil {
		return nil, fmt.Errorf("submission %d tags: %w", submissionID, err)
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

func scanSubmission(row rowScanner) (models.Submission, error) {
	var sub models.Submission
	var vsUID, vsBy sql.NullString
	var vsAt sql.NullInt64

	err := row.Scan(&sub.ID, &sub.FormID, &sub.UUID, &sub.XML,
		&vsUID, &vsBy, &vsAt, &sub.DateCreated)
	if err != nil {
		return models.Submission{}, err
	}

	if vsUID.Valid {
		vs, _ := models.LookupValidationStatus(vsUID.String)
		vs.UID = vsUID.String
		vs.ByWhom = vsBy.String
		vs.Timestamp = vsAt.Int64
		sub.ValidationStatus = &vs
	}
	return sub, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
