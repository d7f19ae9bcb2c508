package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	formstore "github.com/datawell/datawell/internal/app/store/forms"
	profilestore "github.com/datawell/datawell/internal/app/store/profiles"
	submissionstore "github.com/datawell/datawell/internal/app/store/submissions"
	"github.com/datawell/datawell/internal/domain/models"
)

// Fixtures creates test data through the real stores, so fixture rows go
// through the same write paths production does.
type Fixtures struct {
	t        *testing.T
	Forms    *formstore.Store
	Subs     *submissionstore.Store
	Profiles *profilestore.Store

	nforms int
}

// NewFixtures wraps the given database in fixture helpers.
func NewFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()
	return &Fixtures{
		t:        t,
		Forms:    formstore.New(db),
		Subs:     submissionstore.New(db),
		Profiles: profilestore.New(db),
	}
}

// CreateForm creates a form owned by owner with a generated id string.
func (f *Fixtures) CreateForm(ctx context.Context, owner string) models.Form {
	f.t.Helper()
	f.nforms++
	form, err := f.Forms.Create(ctx, models.Form{
		OwnerUsername: owner,
		IDString:      fmt.Sprintf("survey_%d", f.nforms),
		Title:         fmt.Sprintf("Survey %d", f.nforms),
	})
	if err != nil {
		f.t.Fatalf("create form: %v", err)
	}
	return form
}

// CreateSharedForm creates a publicly shared form owned by owner.
func (f *Fixtures) CreateSharedForm(ctx context.Context, owner string) models.Form {
	f.t.Helper()
	f.nforms++
	form, err := f.Forms.Create(ctx, models.Form{
		OwnerUsername: owner,
		IDString:      fmt.Sprintf("shared_survey_%d", f.nforms),
		Title:         fmt.Sprintf("Shared Survey %d", f.nforms),
		Shared:        true,
	})
	if err != nil {
		f.t.Fatalf("create shared form: %v", err)
	}
	return form
}

// CreateSubmission creates a bare submission under the form.
func (f *Fixtures) CreateSubmission(ctx context.Context, formID int64) models.Submission {
	f.t.Helper()
	sub, err := f.Subs.Create(ctx, models.Submission{
		FormID: formID,
		XML:    "<data/>",
	})
	if err != nil {
		f.t.Fatalf("create submission: %v", err)
	}
	return sub
}

// CreateSubmissionWithAttachment creates a submission carrying one
// attachment of the given size.
func (f *Fixtures) CreateSubmissionWithAttachment(ctx context.Context, formID, fileSize int64) models.Submission {
	f.t.Helper()
	sub, err := f.Subs.Create(ctx, models.Submission{
		FormID: formID,
		XML:    "<data/>",
		Attachments: []models.Attachment{
			{MediaFile: "photo.jpg", FileSize: fileSize},
		},
	})
	if err != nil {
		f.t.Fatalf("create submission with attachment: %v", err)
	}
	return sub
}
