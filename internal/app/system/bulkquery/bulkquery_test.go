package bulkquery

import (
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/datawell/datawell/internal/domain/models"
)

func TestParseRejectsQueryWithIDs(t *testing.T) {
	_, err := Parse(map[string]any{
		"query":          map[string]any{"age": 21},
		"submission_ids": []any{float64(1)},
	})
	if !errors.Is(err, ErrSelectorConflict) {
		t.Fatalf("got %v, want ErrSelectorConflict", err)
	}
}

func TestParseStripsEmptyValues(t *testing.T) {
	// A nil query and an empty id list count as absent, so this payload
	// is a whole-form selection and needs confirmation.
	sel, err := Parse(map[string]any{
		"query":          nil,
		"submission_ids": []any{},
		"confirm":        true,
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !sel.All() {
		t.Errorf("selection should cover the whole form")
	}
}

func TestParseEmptyKeysDoNotConflict(t *testing.T) {
	// One real selector plus one empty one is not a conflict.
	sel, err := Parse(map[string]any{
		"query":          map[string]any{"age": 21},
		"submission_ids": []any{},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sel.Query == nil || sel.IDs != nil {
		t.Errorf("selection = %+v, want query-only", sel)
	}
}

func TestParseConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		wantErr bool
	}{
		{"missing confirm", map[string]any{}, true},
		{"confirm false", map[string]any{"confirm": false}, true},
		{"confirm truthy string", map[string]any{"confirm": "yes"}, true},
		{"confirm truthy number", map[string]any{"confirm": float64(1)}, true},
		{"confirm true", map[string]any{"confirm": true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.payload)
			if tt.wantErr && !errors.Is(err, ErrConfirmationRequired) {
				t.Errorf("got %v, want ErrConfirmationRequired", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("got %v, want nil", err)
			}
		})
	}
}

func TestParseQueryWithConfirmAccepted(t *testing.T) {
	// confirm alongside a query is simply ignored; it only matters for
	// whole-form selections.
	sel, err := Parse(map[string]any{
		"query":   map[string]any{"kind": "monthly"},
		"confirm": true,
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sel.Query == nil || sel.All() {
		t.Errorf("selection = %+v, want query-only", sel)
	}
}

func TestParseRejectsNonMappingQuery(t *testing.T) {
	_, err := Parse(map[string]any{"query": "age > 21"})
	var invalid *InvalidQueryError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidQueryError", err)
	}
}

func TestParseSubmissionIDs(t *testing.T) {
	sel, err := Parse(map[string]any{
		"submission_ids": []any{float64(3), "17", int64(42)},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []int64{3, 17, 42}
	if !reflect.DeepEqual(sel.IDs, want) {
		t.Errorf("ids = %v, want %v", sel.IDs, want)
	}
}

func TestParseReportsAllInvalidIDs(t *testing.T) {
	_, err := Parse(map[string]any{
		"submission_ids": []any{float64(1), "seven", float64(2.5), true},
	})
	var invalid *InvalidIDsError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidIDsError", err)
	}
	if len(invalid.Values) != 3 {
		t.Errorf("reported %d invalid values %v, want 3", len(invalid.Values), invalid.Values)
	}
}

func TestParseRejectsNonListIDs(t *testing.T) {
	_, err := Parse(map[string]any{"submission_ids": "1,2,3"})
	var invalid *InvalidIDsError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidIDsError", err)
	}
}

func TestDocumentQueryScopeWins(t *testing.T) {
	form := models.Form{ID: 7, OwnerUsername: "bob", IDString: "survey"}
	sel := Selection{Query: bson.M{
		"age":          bson.M{"$gt": 21},
		"_userform_id": "mallory_other",
	}}

	doc := sel.DocumentQuery(form)
	if doc["_userform_id"] != "bob_survey" {
		t.Errorf("_userform_id = %v, want bob_survey", doc["_userform_id"])
	}
	if _, ok := doc["age"]; !ok {
		t.Errorf("user query key dropped: %v", doc)
	}
	// The selection itself must stay untouched.
	if sel.Query["_userform_id"] != "mallory_other" {
		t.Errorf("DocumentQuery mutated the selection")
	}
}

func TestFiltersWholeForm(t *testing.T) {
	form := models.Form{ID: 7, OwnerUsername: "bob", IDString: "survey"}

	rel, doc := Selection{}.Filters(form, nil)
	if rel.FormID != 7 || rel.IDs != nil {
		t.Errorf("relational filter = %+v, want whole form 7", rel)
	}
	if _, ok := doc["_id"]; ok {
		t.Errorf("whole-form document query should carry no _id: %v", doc)
	}
	if doc["_userform_id"] != "bob_survey" {
		t.Errorf("document query unscoped: %v", doc)
	}
}

func TestFiltersNarrowedToIDs(t *testing.T) {
	form := models.Form{ID: 7, OwnerUsername: "bob", IDString: "survey"}
	ids := []int64{4, 9}

	rel, doc := Selection{IDs: ids}.Filters(form, ids)
	if !reflect.DeepEqual(rel.IDs, ids) {
		t.Errorf("relational ids = %v, want %v", rel.IDs, ids)
	}
	in, ok := doc["_id"].(bson.M)
	if !ok || !reflect.DeepEqual(in["$in"], ids) {
		t.Errorf("document _id filter = %v, want $in %v", doc["_id"], ids)
	}
}

func TestFiltersEmptyIDsMatchNothing(t *testing.T) {
	form := models.Form{ID: 7, OwnerUsername: "bob", IDString: "survey"}

	// A query that matched no documents narrows to the empty set.
	rel, doc := Selection{Query: bson.M{"age": 99}}.Filters(form, []int64{})
	if rel.IDs == nil || len(rel.IDs) != 0 {
		t.Errorf("relational ids = %v, want empty non-nil", rel.IDs)
	}
	in, ok := doc["_id"].(bson.M)
	if !ok {
		t.Fatalf("document _id filter missing: %v", doc)
	}
	if got := in["$in"].([]int64); len(got) != 0 {
		t.Errorf("document $in = %v, want empty", got)
	}
}
