// internal/app/system/resolve/resolve.go

// Package resolve locates the target of an inbound data operation: a form,
// or a single submission within a form. Accessibility policy is decided by
// the injected Authorizer (an external concern); this package only handles
// the shared-form fallback and ownership checks.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	formstore "github.com/datawell/datawell/internal/app/store/forms"
	submissionstore "github.com/datawell/datawell/internal/app/store/submissions"
	"github.com/datawell/datawell/internal/domain/models"
)

// ErrNotFound covers both a missing entity and one the requester may not
// see; the two are indistinguishable to the caller.
var ErrNotFound = errors.New("no data matches the given query")

// InvalidIdentifierError reports a form or submission identifier that is
// not an integer.
type InvalidIdentifierError struct {
	Name  string // "form" or "submission"
	Value string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid %s id %q", e.Name, e.Value)
}

// FormStore is the relational form lookup the gateway needs.
type FormStore interface {
	GetByID(ctx context.Context, id int64) (models.Form, error)
	ListAccessible(ctx context.Context, requester string, tags []string) ([]models.Form, error)
}

// SubmissionStore looks a submission up within its owning form.
type SubmissionStore interface {
	GetForForm(ctx context.Context, id, formID int64) (models.Submission, error)
}

// Authorizer is the external permission decision the gateway trusts. When
// it denies access, the gateway still falls back to public sharing flags
// before giving up.
type Authorizer interface {
	CanAccess(requester string, form models.Form) bool
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(requester string, form models.Form) bool

func (f AuthorizerFunc) CanAccess(requester string, form models.Form) bool {
	return f(requester, form)
}

// OwnerOnly grants direct access to the form's owner. The shared-form
// fallback in the gateway handles everyone else.
var OwnerOnly = AuthorizerFunc(func(requester string, form models.Form) bool {
	return requester != "" && requester == form.OwnerUsername
})

// Resolved is the tagged result of a lookup: always a form, sometimes a
// submission within it.
type Resolved struct {
	form models.Form
	sub  *models.Submission
}

// Form returns the resolved form.
func (r Resolved) Form() models.Form { return r.form }

// Submission returns the resolved submission, if one was requested.
func (r Resolved) Submission() (models.Submission, bool) {
	if r.sub == nil {
		return models.Submission{}, false
	}
	return *r.sub, true
}

// Gateway resolves inbound identifiers against the relational store.
type Gateway struct {
	forms FormStore
	subs  SubmissionStore
	auth  Authorizer
}

func New(forms FormStore, subs SubmissionStore, auth Authorizer) *Gateway {
	return &Gateway{forms: forms, subs: subs, auth: auth}
}

// Resolve looks up a form and, when submissionID is non-empty, a
// submission belonging to it. Both identifiers must parse as integers
// before any store access. A form the requester cannot access directly is
// still resolved when it is publicly shared.
func (g *Gateway) Resolve(ctx context.Context, requester, formID, submissionID string) (Resolved, error) {
	fid, err := parseIdentifier("form", formID)
	if err != nil {
		return Resolved{}, err
	}

	var sid int64
	if submissionID != "" {
		if sid, err = parseIdentifier("submission", submissionID); err != nil {
			return Resolved{}, err
		}
	}

	form, err := g.forms.GetByID(ctx, fid)
	if err != nil {
		if errors.Is(err, formstore.ErrNotFound) {
			return Resolved{}, ErrNotFound
		}
		return Resolved{}, err
	}

	if !g.auth.CanAccess(requester, form) && !form.IsPubliclyShared() {
		return Resolved{}, ErrNotFound
	}

	if submissionID == "" {
		return Resolved{form: form}, nil
	}

	sub, err := g.subs.GetForForm(ctx, sid, fid)
	if err != nil {
		if errors.Is(err, submissionstore.ErrNotFound) {
			return Resolved{}, ErrNotFound
		}
		return Resolved{}, err
	}
	return Resolved{form: form, sub: &sub}, nil
}

// ListForms returns the forms visible to the requester, narrowed by an
// optional comma-separated tag list to forms carrying at least one
// matching tag.
func (g *Gateway) ListForms(ctx context.Context, requester, tags string) ([]models.Form, error) {
	var tagList []string
	for _, tag := range strings.Split(tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tagList = append(tagList, tag)
		}
	}
	return g.forms.ListAccessible(ctx, requester, tagList)
}

func parseIdentifier(name, value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, &InvalidIdentifierError{Name: name, Value: value}
	}
	return id, nil
}
