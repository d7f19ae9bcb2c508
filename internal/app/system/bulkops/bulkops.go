// internal/app/system/bulkops/bulkops.go

// Package bulkops applies submission mutations to both halves of the dual
// store. The relational store is authoritative: its affected-row count is
// the count reported for every operation. The document mirror is updated
// independently, with no cross-store transaction; on a mid-operation
// failure the already-applied relational change persists and the error
// surfaces to the caller. A separate reconciliation pass, not this
// package, is the remedy for drift.
package bulkops

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	submissionstore "github.com/datawell/datawell/internal/app/store/submissions"
	"github.com/datawell/datawell/internal/app/system/bulkquery"
	"github.com/datawell/datawell/internal/app/system/sidefx"
	"github.com/datawell/datawell/internal/domain/models"
)

// ErrUnknownStatus reports a validation-status uid outside the catalog.
var ErrUnknownStatus = errors.New("unknown validation status")

// SubmissionStore is the relational half of the dual store.
type SubmissionStore interface {
	AttachmentBytesWhere(ctx context.Context, f submissionstore.Filter) (int64, error)
	DeleteWhere(ctx context.Context, f submissionstore.Filter) (int64, error)
	SetValidationStatusWhere(ctx context.Context, f submissionstore.Filter, vs *models.ValidationStatus) (int64, error)
	AddTags(ctx context.Context, submissionID int64, tags []string) error
	RemoveTag(ctx context.Context, submissionID int64, tag string) (bool, error)
	Tags(ctx context.Context, submissionID int64) ([]string, error)
}

// RecordStore is the document-mirror half.
type RecordStore interface {
	FindIDs(ctx context.Context, query bson.M) ([]int64, error)
	DeleteMany(ctx context.Context, query bson.M) (int64, error)
	DeleteByID(ctx context.Context, id int64) error
	SetValidationStatusMany(ctx context.Context, query bson.M, vs *models.ValidationStatus) (int64, error)
	SetTags(ctx context.Context, id int64, tags []string) error
}

// FormStore reconciles form-level counter caches.
type FormStore interface {
	ApplyDeletion(ctx context.Context, formID, removedCount, removedBytes int64) error
}

// ProfileStore reconciles owner-level storage accounting.
type ProfileStore interface {
	AddStorageBytes(ctx context.Context, username string, delta int64) error
}

// Service orchestrates dual-store mutations for one process.
type Service struct {
	subs     SubmissionStore
	records  RecordStore
	forms    FormStore
	profiles ProfileStore
	log      *zap.Logger
}

func New(subs SubmissionStore, records RecordStore, forms FormStore, profiles ProfileStore, log *zap.Logger) *Service {
	return &Service{
		subs:     subs,
		records:  records,
		forms:    forms,
		profiles: profiles,
		log:      log,
	}
}

// buildFilters resolves a bulk payload into the relational/document filter
// pair. A supplied document query is executed here (id projection only) so
// both stores end up narrowed to the same concrete identifiers.
func (s *Service) buildFilters(ctx context.Context, form models.Form, payload map[string]any) (submissionstore.Filter, bson.M, error) {
	sel, err := bulkquery.Parse(payload)
	if err != nil {
		return submissionstore.Filter{}, nil, err
	}

	var ids []int64
	switch {
	case sel.Query != nil:
		found, err := s.records.FindIDs(ctx, sel.DocumentQuery(form))
		if err != nil {
			return submissionstore.Filter{}, nil, err
		}
		ids = found
		if ids == nil {
			// A query that matched nothing still narrows the filters;
			// it must not widen to the whole form.
			ids = []int64{}
		}
	case sel.IDs != nil:
		ids = sel.IDs
	}

	rel, doc := sel.Filters(form, ids)
	return rel, doc, nil
}

// DeleteMany removes the selected submissions from both stores and
// reconciles the owning form's counters. Per-row side effects are
// suspended for the duration and restored on every exit path. The
// relational deleted-row count is returned; zero matches is success.
//
// When the mirror deletion fails, the relational deletion is not rolled
// back and the counter reconciliation is skipped; the caller gets the
// error.
func (s *Service) DeleteMany(ctx context.Context, form models.Form, payload map[string]any) (int64, error) {
	rel, doc, err := s.buildFilters(ctx, form, payload)
	if err != nil {
		return 0, err
	}

	// Measured before the rows disappear.
	removedBytes, err := s.subs.AttachmentBytesWhere(ctx, rel)
	if err != nil {
		return 0, err
	}

	release := sidefx.Suspend()
	defer release()

	deleted, err := s.subs.DeleteWhere(ctx, rel)
	if err != nil {
		return 0, err
	}

	if _, err := s.records.DeleteMany(ctx, doc); err != nil {
		s.log.Error("bulk delete: record mirror deletion failed",
			zap.Int64("form_id", form.ID),
			zap.Int64("deleted_rows", deleted),
			zap.Error(err))
		return 0, err
	}

	if err := s.forms.ApplyDeletion(ctx, form.ID, deleted, removedBytes); err != nil {
		return 0, err
	}
	if removedBytes > 0 {
		if err := s.profiles.AddStorageBytes(ctx, form.OwnerUsername, -removedBytes); err != nil {
			return 0, err
		}
	}

	s.log.Info("bulk delete applied",
		zap.Int64("form_id", form.ID),
		zap.Int64("deleted", deleted),
		zap.Int64("removed_bytes", removedBytes))
	return deleted, nil
}

// SetValidationStatusMany updates the validation status on the selected
// submissions in both stores and returns the relational affected-row
// count. Validation-status changes do not touch aggregate counters, so no
// suspension is needed.
func (s *Service) SetValidationStatusMany(ctx context.Context, form models.Form, payload map[string]any, statusUID, byWhom string) (int64, error) {
	vs, ok := models.GetValidationStatus(statusUID, byWhom)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, statusUID)
	}

	rel, doc, err := s.buildFilters(ctx, form, payload)
	if err != nil {
		return 0, err
	}

	updated, err := s.subs.SetValidationStatusWhere(ctx, rel, &vs)
	if err != nil {
		return 0, err
	}
	if _, err := s.records.SetValidationStatusMany(ctx, doc, &vs); err != nil {
		return 0, err
	}

	s.log.Info("bulk validation status applied",
		zap.Int64("form_id", form.ID),
		zap.String("status", statusUID),
		zap.Int64("updated", updated))
	return updated, nil
}

// DeleteOne removes a single submission. Unless a bulk operation holds the
// side-effect gate, the normal per-row effects run: mirror removal and
// counter decrements.
func (s *Service) DeleteOne(ctx context.Context, form models.Form, submissionID int64) error {
	one := submissionstore.Filter{FormID: form.ID, IDs: []int64{submissionID}}

	removedBytes, err := s.subs.AttachmentBytesWhere(ctx, one)
	if err != nil {
		return err
	}

	deleted, err := s.subs.DeleteWhere(ctx, one)
	if err != nil {
		return err
	}

	if sidefx.Suspended() || deleted == 0 {
		return nil
	}

	if err := s.records.DeleteByID(ctx, submissionID); err != nil {
		return err
	}
	if err := s.forms.ApplyDeletion(ctx, form.ID, deleted, removedBytes); err != nil {
		return err
	}
	if removedBytes > 0 {
		if err := s.profiles.AddStorageBytes(ctx, form.OwnerUsername, -removedBytes); err != nil {
			return err
		}
	}
	return nil
}

// SetValidationStatusOne assigns a catalog status to one submission in
// both stores and returns the recorded status payload.
func (s *Service) SetValidationStatusOne(ctx context.Context, form models.Form, submissionID int64, statusUID, byWhom string) (models.ValidationStatus, error) {
	vs, ok := models.GetValidationStatus(statusUID, byWhom)
	if !ok {
		return models.ValidationStatus{}, fmt.Errorf("%w: %q", ErrUnknownStatus, statusUID)
	}

	one := submissionstore.Filter{FormID: form.ID, IDs: []int64{submissionID}}
	if _, err := s.subs.SetValidationStatusWhere(ctx, one, &vs); err != nil {
		return models.ValidationStatus{}, err
	}

	doc := bulkquery.Scope(form)
	doc["_id"] = submissionID
	if _, err := s.records.SetValidationStatusMany(ctx, doc, &vs); err != nil {
		return models.ValidationStatus{}, err
	}
	return vs, nil
}

// ClearValidationStatusOne removes the inline status from one submission
// in both stores.
func (s *Service) ClearValidationStatusOne(ctx context.Context, form models.Form, submissionID int64) error {
	one := submissionstore.Filter{FormID: form.ID, IDs: []int64{submissionID}}
	if _, err := s.subs.SetValidationStatusWhere(ctx, one, nil); err != nil {
		return err
	}

	doc := bulkquery.Scope(form)
	doc["_id"] = submissionID
	_, err := s.records.SetValidationStatusMany(ctx, doc, nil)
	return err
}

// AddLabels attaches tags to a submission and mirrors the resulting label
// set to the record store. Returns the submission's labels after the
// change.
func (s *Service) AddLabels(ctx context.Context, form models.Form, submissionID int64, tags []string) ([]string, error) {
	if err := s.subs.AddTags(ctx, submissionID, tags); err != nil {
		return nil, err
	}
	return s.mirrorLabels(ctx, submissionID)
}

// RemoveLabel deletes one tag. The removed return reports whether the
// label existed.
func (s *Service) RemoveLabel(ctx context.Context, form models.Form, submissionID int64, tag string) (labels []string, removed bool, err error) {
	removed, err = s.subs.RemoveTag(ctx, submissionID, tag)
	if err != nil {
		return nil, false, err
	}
	labels, err = s.mirrorLabels(ctx, submissionID)
	return labels, removed, err
}

func (s *Service) mirrorLabels(ctx context.Context, submissionID int64) ([]string, error) {
	labels, err := s.subs.Tags(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.records.SetTags(ctx, submissionID, labels); err != nil {
		return nil, err
	}
	return labels, nil
}
