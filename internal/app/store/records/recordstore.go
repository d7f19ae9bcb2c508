// internal/app/store/records/recordstore.go
package recordstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/datawell/datawell/internal/domain/models"
)

// Store is the document-store mirror of submissions. Each record carries
// the submission's arbitrary user-supplied fields plus the reserved keys:
// _id (the relational submission id), _userform_id (the form scope),
// _uuid, _tags, and _validation_status. The mirror exists for ad-hoc
// querying; it is never the count-of-record side.
type Store struct {
	c *mongo.Collection
}

// QueryExecutionError reports a filter expression the document store
// rejected (malformed operators and the like).
type QueryExecutionError struct {
	Err error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("document query rejected: %v", e.Err)
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("records")}
}

// Insert writes the mirror document for a submission. Reserved keys
// override any same-named keys in fields.
func (s *Store) Insert(ctx context.Context, sub models.Submission, userFormID string, fields bson.M) error {
	doc := bson.M{}
	for k, v := range fields {
		doc[k] = v
	}
	doc["_id"] = sub.ID
	doc["_userform_id"] = userFormID
	doc["_uuid"] = sub.UUID
	if len(sub.Tags) > 0 {
		doc["_tags"] = sub.Tags
	}
	if sub.ValidationStatus != nil {
		doc["_validation_status"] = sub.ValidationStatus
	}

	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert record %d: %w", sub.ID, err)
	}
	return nil
}

// FindIDs runs a resolved document filter and returns every matching
// submission id in store-native order, projecting only _id. Bulk
// operations must see all matches in one pass, so there is no paging.
func (s *Store) FindIDs(ctx context.Context, query bson.M) ([]int64, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, &QueryExecutionError{Err: err}
	}
	defer cur.Close(ctx)

	var ids []int64
	for cur.Next(ctx) {
		var doc struct {
			ID int64 `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode record id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, &QueryExecutionError{Err: err}
	}
	return ids, nil
}

// DeleteMany removes every record matching the filter and returns the
// deleted-document count. The relational count remains the number of
// record for the operation.
func (s *Store) DeleteMany(ctx context.Context, query bson.M) (int64, error) {
	res, err := s.c.DeleteMany(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("bulk delete records: %w", err)
	}
	return res.DeletedCount, nil
}

// DeleteByID removes a single record by submission id.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	return nil
}

// SetValidationStatusMany applies the status to every record matching the
// filter; nil clears the field.
func (s *Store) SetValidationStatusMany(ctx context.Context, query bson.M, vs *models.ValidationStatus) (int64, error) {
	var update bson.M
	if vs == nil {
		update = bson.M{"$unset": bson.M{"_validation_status": ""}}
	} else {
		update = bson.M{"$set": bson.M{"_validation_status": vs}}
	}

	res, err := s.c.UpdateMany(ctx, query, update)
	if err != nil {
		return 0, fmt.Errorf("bulk update validation statuses: %w", err)
	}
	return res.ModifiedCount, nil
}

// SetTags replaces the record's label set.
func (s *Store) SetTags(ctx context.Context, id int64, tags []string) error {
	update := bson.M{"$set": bson.M{"_tags": tags}}
	if len(tags) == 0 {
		update = bson.M{"$unset": bson.M{"_tags": ""}}
	}
	if _, err := s.c.UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("set record %d tags: %w", id, err)
	}
	return nil
}

// Get fetches one mirror document, mainly for tests and reconciliation.
func (s *Store) Get(ctx context.Context, id int64) (bson.M, error) {
	var doc bson.M
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("get record %d: %w", id, err)
	}
	return doc, nil
}
