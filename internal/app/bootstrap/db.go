// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/datawell/datawell/internal/app/store/schema"
	"github.com/datawell/datawell/internal/app/system/indexes"
)

// ConnectDB opens both halves of the dual store: the Mongo client for the
// record mirror and the SQLite handle for the relational store.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	clientOpts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}

	if appCfg.SQLitePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(appCfg.SQLitePath), 0o755); err != nil {
			return DBDeps{}, fmt.Errorf("create data dir: %w", err)
		}
	}
	sqlDB, err := schema.Open(appCfg.SQLitePath)
	if err != nil {
		return DBDeps{}, err
	}

	logger.Info("stores connected",
		zap.String("mongo_database", appCfg.MongoDatabase),
		zap.String("sqlite_path", appCfg.SQLitePath))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		SQL:           sqlDB,
	}, nil
}

// EnsureSchema migrates the relational store and ensures the mirror's
// indexes. Both are idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := schema.MigrateUp(deps.SQL); err != nil {
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return fmt.Errorf("ensure mongo indexes: %w", err)
	}
	return nil
}
