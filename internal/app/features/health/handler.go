// internal/app/features/health/handler.go
package health

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/datawell/datawell/internal/app/system/timeouts"
)

// Handler holds the connections the health check probes: both halves of
// the dual store.
type Handler struct {
	Mongo *mongo.Client
	SQL   *sql.DB
	Log   *zap.Logger
}

func NewHandler(mongoClient *mongo.Client, sqlDB *sql.DB, logger *zap.Logger) *Handler {
	return &Handler{Mongo: mongoClient, SQL: sqlDB, Log: logger}
}

type healthResponse struct {
	Status       string `json:"status"`
	RecordStore  string `json:"record_store"`
	RelationalDB string `json:"relational_db"`
	Error        string `json:"error,omitempty"`
}

// Serve handles GET /health. Either store being unreachable makes the
// whole check a 503; the engine cannot run on one half of the dual store.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Ping(), h.Log, "health check")
	defer cancel()

	resp := healthResponse{
		Status:       "ok",
		RecordStore:  "connected",
		RelationalDB: "connected",
	}
	code := http.StatusOK

	if err := h.Mongo.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health: record store ping failed", zap.Error(err))
		resp.Status = "error"
		resp.RecordStore = "disconnected"
		resp.Error = err.Error()
		code = http.StatusServiceUnavailable
	}
	if err := h.SQL.PingContext(ctx); err != nil {
		h.Log.Error("health: relational ping failed", zap.Error(err))
		resp.Status = "error"
		resp.RelationalDB = "disconnected"
		resp.Error = err.Error()
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
