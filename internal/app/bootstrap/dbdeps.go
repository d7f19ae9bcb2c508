// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"database/sql"

	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the two store connections the submission engine runs on:
// the authoritative relational store and the document mirror.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	SQL           *sql.DB
}
