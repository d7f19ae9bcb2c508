// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, request limits). AppConfig carries what is specific to
// datawell: the two store connections backing the submission engine.
type AppConfig struct {
	// MongoDB (document mirror) connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// SQLite (relational store) configuration
	SQLitePath string // Database file path, or ":memory:"
}
