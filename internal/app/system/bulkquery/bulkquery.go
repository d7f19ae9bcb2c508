// internal/app/system/bulkquery/bulkquery.go

// Package bulkquery translates a bulk-operation payload into the pair of
// store-specific filter descriptors the dual-store mutator needs: a
// relational submissions filter and a document-store query. Translation is
// pure; executing a document query to narrow it to concrete ids is the
// record store's job.
package bulkquery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	submissionstore "github.com/datawell/datawell/internal/app/store/submissions"
	"github.com/datawell/datawell/internal/domain/models"
)

var (
	// ErrSelectorConflict: `query` and `submission_ids` are mutually
	// exclusive selection strategies.
	ErrSelectorConflict = errors.New("`query` and `submission_ids` cannot be used together")

	// ErrConfirmationRequired: selecting every submission in a form
	// requires `confirm: true`, exactly.
	ErrConfirmationRequired = errors.New("whole-form operations require `confirm: true`")
)

// InvalidQueryError reports a `query` value that is not filter-shaped.
type InvalidQueryError struct {
	Query any
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query: %v", e.Query)
}

// InvalidIDsError reports the `submission_ids` entries that did not parse
// as integer identifiers. Invalid entries fail the whole request; they are
// never silently dropped.
type InvalidIDsError struct {
	Values []any
}

func (e *InvalidIDsError) Error() string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "invalid submission ids: " + strings.Join(parts, ", ")
}

// Selection is the classified form of a bulk payload: exactly one of a
// document query, an explicit id list, or the whole form (both nil).
type Selection struct {
	Query bson.M  // user-supplied document query, unscoped; nil if absent
	IDs   []int64 // explicit submission ids; nil if absent
}

// All reports whether the selection covers every submission in the form.
func (sel Selection) All() bool {
	return sel.Query == nil && sel.IDs == nil
}

// Parse validates a raw bulk payload and classifies its selection
// strategy. Keys with empty values are stripped before inspection, so
// `"query": nil` or `"submission_ids": []` count as absent.
func Parse(payload map[string]any) (Selection, error) {
	stripped := make(map[string]any, len(payload))
	for k, v := range payload {
		if !isEmpty(v) {
			stripped[k] = v
		}
	}

	rawQuery, hasQuery := stripped["query"]
	rawIDs, hasIDs := stripped["submission_ids"]

	if hasQuery && hasIDs {
		return Selection{}, ErrSelectorConflict
	}

	if hasQuery {
		query, err := asQuery(rawQuery)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Query: query}, nil
	}

	if hasIDs {
		ids, err := asIDs(rawIDs)
		if err != nil {
			return Selection{}, err
		}
		return Selection{IDs: ids}, nil
	}

	// Whole form: confirm must be the boolean true, not a truthy value.
	if confirm, ok := stripped["confirm"].(bool); !ok || !confirm {
		return Selection{}, ErrConfirmationRequired
	}
	return Selection{}, nil
}

// Scope is the mandatory document-filter fragment restricting any query to
// one form's records. Both the resolver and the record write path derive
// the scoping value the same way, through models.Form.UserFormID.
func Scope(form models.Form) bson.M {
	return bson.M{"_userform_id": form.UserFormID()}
}

// DocumentQuery merges the selection's user query with the form scope. An
// explicit scope key in the user query is overridden by the base scope,
// never the reverse: a query can never escape its form's submissions.
func (sel Selection) DocumentQuery(form models.Form) bson.M {
	query := bson.M{}
	for k, v := range sel.Query {
		query[k] = v
	}
	for k, v := range Scope(form) {
		query[k] = v
	}
	return query
}

// Filters builds the relational/document descriptor pair for the
// selection. ids carries the concrete identifiers when the selection was
// narrowed (explicit list, or a document query already executed by the
// record store); nil means the whole form.
func (sel Selection) Filters(form models.Form, ids []int64) (submissionstore.Filter, bson.M) {
	rel := submissionstore.Filter{FormID: form.ID}
	doc := sel.DocumentQuery(form)

	if ids != nil {
		rel.IDs = ids
		doc["_id"] = bson.M{"$in": ids}
	}
	return rel, doc
}

// asQuery requires a mapping-shaped query expression.
func asQuery(raw any) (bson.M, error) {
	switch q := raw.(type) {
	case map[string]any:
		return bson.M(q), nil
	case bson.M:
		return q, nil
	default:
		return nil, &InvalidQueryError{Query: raw}
	}
}

// asIDs parses every entry as an integer identifier, collecting the
// offending values instead of dropping them.
func asIDs(raw any) ([]int64, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, &InvalidIDsError{Values: []any{raw}}
	}

	ids := make([]int64, 0, len(list))
	var bad []any
	for _, v := range list {
		id, ok := parseID(v)
		if !ok {
			bad = append(bad, v)
			continue
		}
		ids = append(ids, id)
	}
	if len(bad) > 0 {
		return nil, &InvalidIDsError{Values: bad}
	}
	return ids, nil
}

func parseID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		// JSON numbers decode as float64; only integral values qualify.
		if id != float64(int64(id)) {
			return 0, false
		}
		return int64(id), true
	case int:
		return int64(id), true
	case int64:
		return id, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// isEmpty mirrors the payload-stripping rule: keys whose value is the zero
// of its kind are treated as absent.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case float64:
		return val == 0
	case int:
		return val == 0
	case int64:
		return val == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
