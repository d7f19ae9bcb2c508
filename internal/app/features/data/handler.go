// internal/app/features/data/handler.go

// Package data is the HTTP boundary over the dual-store submission engine.
// Handlers translate payloads and URL parameters for the engine and map
// its typed failures to status codes; all querying and mutation semantics
// live below, in system/bulkquery, system/bulkops, and system/resolve.
//
// The requester's identity arrives in the X-Requester header, set by the
// upstream authentication layer. Permission decisions beyond ownership and
// public sharing are that layer's concern, not this package's.
package data

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	recordstore "github.com/datawell/datawell/internal/app/store/records"
	"github.com/datawell/datawell/internal/app/system/bulkops"
	"github.com/datawell/datawell/internal/app/system/bulkquery"
	"github.com/datawell/datawell/internal/app/system/resolve"
)

// Handler holds the engine dependencies for the data API.
type Handler struct {
	Gateway *resolve.Gateway
	Ops     *bulkops.Service
	Log     *zap.Logger
}

func NewHandler(gateway *resolve.Gateway, ops *bulkops.Service, logger *zap.Logger) *Handler {
	return &Handler{Gateway: gateway, Ops: ops, Log: logger}
}

func requester(r *http.Request) string {
	return r.Header.Get("X-Requester")
}

// decodePayload reads a JSON object body. An empty body is a valid empty
// payload (bulk operations then fail with the confirmation error, which is
// the right answer).
func decodePayload(r *http.Request) (map[string]any, error) {
	payload := map[string]any{}
	if r.Body == nil {
		return payload, nil
	}
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return payload, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// writeError maps the engine's typed failures onto status codes: payload
// and identifier problems are 400s, missing or invisible entities are
// 404s, everything else is a 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidQuery *bulkquery.InvalidQueryError
		invalidIDs   *bulkquery.InvalidIDsError
		invalidIdent *resolve.InvalidIdentifierError
		queryExec    *recordstore.QueryExecutionError
	)

	switch {
	case errors.Is(err, bulkquery.ErrSelectorConflict),
		errors.Is(err, bulkquery.ErrConfirmationRequired),
		errors.Is(err, bulkops.ErrUnknownStatus),
		errors.As(err, &invalidQuery),
		errors.As(err, &invalidIDs),
		errors.As(err, &invalidIdent),
		errors.As(err, &queryExec):
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: err.Error()})
	case errors.Is(err, resolve.ErrNotFound):
		writeJSON(w, http.StatusNotFound, detailResponse{Detail: err.Error()})
	default:
		h.Log.Error("data handler failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError,
			detailResponse{Detail: "internal error"})
	}
}
