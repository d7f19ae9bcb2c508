// internal/domain/models/validationstatus.go
package models

import "time"

// ValidationStatus is the per-submission review state. It is recorded
// inline on each submission (both stores), attributed to the acting user
// and stamped at assignment time. The catalog of assignable statuses is
// fixed; uids are stable identifiers, labels and colors are display-only.
type ValidationStatus struct {
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
	ByWhom    string `bson:"by_whom" json:"by_whom"`
	UID       string `bson:"uid" json:"uid"`
	Color     string `bson:"color" json:"color"`
	Label     string `bson:"label" json:"label"`
}

const (
	ValidationStatusApproved    = "validation_status_approved"
	ValidationStatusNotApproved = "validation_status_not_approved"
	ValidationStatusOnHold      = "validation_status_on_hold"
)

// validationStatuses is the assignable catalog, keyed by uid.
var validationStatuses = map[string]ValidationStatus{
	ValidationStatusApproved: {
		UID:   ValidationStatusApproved,
		Color: "#00ff00",
		Label: "Approved",
	},
	ValidationStatusNotApproved: {
		UID:   ValidationStatusNotApproved,
		Color: "#ff0000",
		Label: "Not Approved",
	},
	ValidationStatusOnHold: {
		UID:   ValidationStatusOnHold,
		Color: "#0000ff",
		Label: "On Hold",
	},
}

// LookupValidationStatus returns the catalog entry for uid without
// attribution. Used when rehydrating a stored status.
func LookupValidationStatus(uid string) (ValidationStatus, bool) {
	vs, ok := validationStatuses[uid]
	return vs, ok
}

// GetValidationStatus looks up uid in the catalog and, when found, returns
// a copy attributed to byWhom with the current timestamp.
func GetValidationStatus(uid, byWhom string) (ValidationStatus, bool) {
	vs, ok := validationStatuses[uid]
	if !ok {
		return ValidationStatus{}, false
	}
	vs.ByWhom = byWhom
	vs.Timestamp = time.Now().UTC().Unix()
	return vs, true
}
