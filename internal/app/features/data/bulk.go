// internal/app/features/data/bulk.go
package data

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/datawell/datawell/internal/app/system/timeouts"
)

// ServeBulkDelete handles DELETE /api/v1/data/{formID}.
//
// The payload selects submissions by `query`, by `submission_ids`, or as
// the whole form with `confirm: true`. Responds 200 with the deleted count
// from the relational store; zero matches is still a 200.
func (h *Handler) ServeBulkDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "bulk delete")
	defer cancel()

	payload, err := decodePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "invalid JSON payload"})
		return
	}

	res, err := h.Gateway.Resolve(ctx, requester(r), chi.URLParam(r, "formID"), "")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	deleted, err := h.Ops.DeleteMany(ctx, res.Form(), payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detailResponse{
		Detail: fmt.Sprintf("%d submissions have been deleted", deleted),
	})
}

// ServeBulkValidationStatus handles PATCH
// /api/v1/data/{formID}/validation_statuses.
//
// Requires `validation_status.uid` in the payload alongside the usual
// selection keys. Responds 200 with the updated count; zero matches is
// still a 200.
func (h *Handler) ServeBulkValidationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "bulk validation status")
	defer cancel()

	payload, err := decodePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "invalid JSON payload"})
		return
	}

	statusUID, _ := payload["validation_status.uid"].(string)
	if statusUID == "" {
		writeJSON(w, http.StatusBadRequest,
			detailResponse{Detail: "no `validation_status.uid` provided"})
		return
	}

	res, err := h.Gateway.Resolve(ctx, requester(r), chi.URLParam(r, "formID"), "")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.Ops.SetValidationStatusMany(ctx, res.Form(), payload, statusUID, requester(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detailResponse{
		Detail: fmt.Sprintf("%d submissions have been updated", updated),
	})
}
