// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll is called at startup. Index creation is idempotent, so a
// restart against an already-indexed database is a no-op.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	if err := ensureRecords(ctx, db); err != nil {
		return fmt.Errorf("records: %w", err)
	}
	return nil
}

// ensureRecords indexes the submission mirror. Every document query is
// scoped by _userform_id, so that index carries the whole read path.
func ensureRecords(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("records")

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "_userform_id", Value: 1}},
			Options: options.Index().SetName("userform_id_1"),
		},
		{
			Keys:    bson.D{{Key: "_uuid", Value: 1}},
			Options: options.Index().SetName("uuid_1"),
		},
	})
	return err
}
