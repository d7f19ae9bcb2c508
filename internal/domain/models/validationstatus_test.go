package models

import "testing"

func TestGetValidationStatusAttribution(t *testing.T) {
	vs, ok := GetValidationStatus(ValidationStatusApproved, "carol")
	if !ok {
		t.Fatalf("approved status missing from catalog")
	}
	if vs.ByWhom != "carol" {
		t.Errorf("by_whom = %q, want carol", vs.ByWhom)
	}
	if vs.Timestamp == 0 {
		t.Errorf("timestamp not stamped")
	}
	if vs.Label != "Approved" || vs.Color != "#00ff00" {
		t.Errorf("catalog entry = %+v", vs)
	}
}

func TestGetValidationStatusUnknown(t *testing.T) {
	if _, ok := GetValidationStatus("validation_status_bogus", "carol"); ok {
		t.Errorf("unknown uid resolved")
	}
}

func TestLookupValidationStatusUnattributed(t *testing.T) {
	vs, ok := LookupValidationStatus(ValidationStatusOnHold)
	if !ok {
		t.Fatalf("on-hold status missing from catalog")
	}
	if vs.ByWhom != "" || vs.Timestamp != 0 {
		t.Errorf("lookup must not attribute: %+v", vs)
	}
}

func TestUserFormID(t *testing.T) {
	f := Form{OwnerUsername: "bob", IDString: "household_survey"}
	if got := f.UserFormID(); got != "bob_household_survey" {
		t.Errorf("UserFormID = %q", got)
	}
}

func TestIsPubliclyShared(t *testing.T) {
	if (Form{}).IsPubliclyShared() {
		t.Errorf("unshared form reads as public")
	}
	if !(Form{Shared: true}).IsPubliclyShared() {
		t.Errorf("shared form not public")
	}
	if !(Form{SharedData: true}).IsPubliclyShared() {
		t.Errorf("shared-data form not public")
	}
}
