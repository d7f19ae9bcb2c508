package resolve_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/datawell/datawell/internal/app/system/resolve"
	"github.com/datawell/datawell/internal/testutil"
)

func newGateway(t *testing.T) (*resolve.Gateway, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	return resolve.New(fx.Forms, fx.Subs, resolve.OwnerOnly), fx
}

func TestResolveForm(t *testing.T) {
	gw, fx := newGateway(t)
	ctx := context.Background()

	form := fx.CreateForm(ctx, "bob")

	res, err := gw.Resolve(ctx, "bob", fmt.Sprint(form.ID), "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Form().ID != form.ID {
		t.Errorf("resolved form %d, want %d", res.Form().ID, form.ID)
	}
	if _, ok := res.Submission(); ok {
		t.Errorf("unexpected submission in a form-only resolution")
	}
}

func TestResolveSubmission(t *testing.T) {
	gw, fx := newGateway(t)
	ctx := context.Background()

	form := fx.CreateForm(ctx, "bob")
	sub := fx.CreateSubmission(ctx, form.ID)

	res, err := gw.Resolve(ctx, "bob", fmt.Sprint(form.ID), fmt.Sprint(sub.ID))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got, ok := res.Submission()
	if !ok || got.ID != sub.ID {
		t.Errorf("resolved submission %+v, want id %d", got, sub.ID)
	}
}

func TestResolveInvalidIdentifiers(t *testing.T) {
	gw, _ := newGateway(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		formID       string
		submissionID string
	}{
		{"form id not numeric", "abc", ""},
		{"submission id not numeric", "1", "xyz"},
		{"form id empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gw.Resolve(ctx, "bob", tt.formID, tt.submissionID)
			var invalid *resolve.InvalidIdentifierError
			if !errors.As(err, &invalid) {
				t.Errorf("got %v, want InvalidIdentifierError", err)
			}
		})
	}
}

func TestResolveMissingForm(t *testing.T) {
	gw, _ := newGateway(t)

	_, err := gw.Resolve(context.Background(), "bob", "999", "")
	if !errors.Is(err, resolve.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestResolveAccessDeniedReadsAsNotFound(t *testing.T) {
	gw, fx := newGateway(t)
	ctx := context.Background()

	private := fx.CreateForm(ctx, "alice")

	_, err := gw.Resolve(ctx, "bob", fmt.Sprint(private.ID), "")
	if !errors.Is(err, resolve.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound for an inaccessible form", err)
	}
}

func TestResolveSharedFormFallback(t *testing.T) {
	gw, fx := newGateway(t)
	ctx := context.Background()

	shared := fx.CreateSharedForm(ctx, "alice")

	res, err := gw.Resolve(ctx, "bob", fmt.Sprint(shared.ID), "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Form().ID != shared.ID {
		t.Errorf("resolved form %d, want the shared form %d", res.Form().ID, shared.ID)
	}
}

func TestResolveSubmissionWrongForm(t *testing.T) {
	gw, fx := newGateway(t)
	ctx := context.Background()

	formA := fx.CreateForm(ctx, "bob")
	formB := fx.CreateForm(ctx, "bob")
	sub := fx.CreateSubmission(ctx, formA.ID)

	_, err := gw.Resolve(ctx, "bob", fmt.Sprint(formB.ID), fmt.Sprint(sub.ID))
	if !errors.Is(err, resolve.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound for a cross-form submission id", err)
	}
}

func TestListFormsTagNarrowing(t *testing.T) {
	gw, fx := newGateway(t)
	ctx := context.Background()

	tagged := fx.CreateForm(ctx, "bob")
	if err := fx.Forms.AddTags(ctx, tagged.ID, []string{"pilot"}); err != nil {
		t.Fatalf("tag: %v", err)
	}
	fx.CreateForm(ctx, "bob")

	forms, err := gw.ListForms(ctx, "bob", " pilot , ,missing ")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(forms) != 1 || forms[0].ID != tagged.ID {
		t.Errorf("listed %v, want only form %d", forms, tagged.ID)
	}

	all, err := gw.ListForms(ctx, "bob", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("listed %d forms without tags, want 2", len(all))
	}
}
