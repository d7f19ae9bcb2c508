// Package testutil provides shared helpers for package tests: in-memory
// relational databases with the full schema applied, an optional Mongo
// test database, and fixtures built through the real stores.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/datawell/datawell/internal/app/store/schema"
)

// SetupTestDB opens an in-memory SQLite database with all migrations
// applied. The database is closed when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := schema.Open(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := schema.MigrateUp(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// SetupMongo connects to the Mongo instance named by
// DATAWELL_TEST_MONGO_URI and returns a database unique to this test run.
// Tests that need a live document store call this and are skipped when the
// variable is unset. The database is dropped when the test finishes.
func SetupMongo(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("DATAWELL_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("DATAWELL_TEST_MONGO_URI not set; skipping document-store test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect test mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("ping test mongo: %v", err)
	}

	db := client.Database(fmt.Sprintf("datawell_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
