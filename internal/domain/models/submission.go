// internal/domain/models/submission.go
package models

import "time"

// Submission is one data record belonging to exactly one Form.
//
// A submission is dual-homed: the relational row here is authoritative for
// existence and counts, and a mirror document in the record store carries
// the arbitrary user-defined field set for ad-hoc querying. The same
// numeric ID resolves in both stores.
type Submission struct {
	ID     int64  `json:"id"`
	FormID int64  `json:"form_id"`
	UUID   string `json:"uuid"`

	// XML is the raw serialized payload as received on ingest.
	XML string `json:"xml,omitempty"`

	// ValidationStatus is recorded inline; nil means unset.
	ValidationStatus *ValidationStatus `json:"validation_status,omitempty"`

	Tags []string `json:"tags,omitempty"`

	Attachments []Attachment `json:"attachments,omitempty"`

	DateCreated time.Time `json:"date_created"`
}

// Attachment is a file that arrived with a submission. FileSize feeds the
// owning form's storage-bytes cache.
type Attachment struct {
	ID           int64  `json:"id"`
	SubmissionID int64  `json:"submission_id"`
	MediaFile    string `json:"media_file"`
	FileSize     int64  `json:"file_size"`
}
