// internal/domain/models/form.go
package models

import (
	"fmt"
	"time"
)

// Form is a named submission schema owned by a user.
//
// SubmissionCount and AttachmentStorageBytes are denormalized caches over
// the form's live submissions, not ground truth. Single-row submission
// deletes maintain them through per-row side effects; bulk operations
// suspend those and reconcile the caches with one explicit delta update.
type Form struct {
	ID            int64  `json:"id"`
	OwnerUsername string `json:"owner"`
	IDString      string `json:"id_string"` // URL-safe slug, unique per owner
	Title         string `json:"title"`

	// Sharing flags. Either one makes the form (and its data) visible to
	// requesters who are not the owner.
	Shared     bool `json:"shared"`
	SharedData bool `json:"shared_data"`

	SubmissionCount        int64 `json:"submission_count"`
	AttachmentStorageBytes int64 `json:"attachment_storage_bytes"`

	Tags []string `json:"tags,omitempty"`

	DateCreated  time.Time `json:"date_created"`
	DateModified time.Time `json:"date_modified"`
}

// UserFormID is the document-store scoping value for this form's records.
// Both halves of the dual store derive it the same way; drift here would
// silently detach the mirror from the form.
func (f Form) UserFormID() string {
	return fmt.Sprintf("%s_%s", f.OwnerUsername, f.IDString)
}

// IsPubliclyShared reports whether the form falls back to public
// visibility when the requester has no direct access.
func (f Form) IsPubliclyShared() bool {
	return f.Shared || f.SharedData
}
