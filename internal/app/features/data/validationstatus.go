// internal/app/features/data/validationstatus.go
package data

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/datawell/datawell/internal/app/system/resolve"
	"github.com/datawell/datawell/internal/app/system/timeouts"
)

// ServeGetValidationStatus handles GET
// /api/v1/data/{formID}/{dataID}/validation_status. An unset status reads
// as an empty object.
func (h *Handler) ServeGetValidationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get validation status")
	defer cancel()

	res, err := h.Gateway.Resolve(ctx, requester(r),
		chi.URLParam(r, "formID"), chi.URLParam(r, "dataID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	sub, _ := res.Submission()
	if sub.ValidationStatus == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, sub.ValidationStatus)
}

// ServeSetValidationStatus handles PATCH
// /api/v1/data/{formID}/{dataID}/validation_status with payload
// {"validation_status.uid": "..."}.
func (h *Handler) ServeSetValidationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "set validation status")
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

	res, err := h.Gateway.Resolve(ctx, requester(r),
		chi.URLParam(r, "formID"), chi.URLParam(r, "dataID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	sub, ok := res.Submission()
	if !ok {
		h.writeError(w, r, resolve.ErrNotFound)
		return
	}

	vs, err := h.Ops.SetValidationStatusOne(ctx, res.Form(), sub.ID, statusUID, requester(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

// ServeClearValidationStatus handles DELETE
// /api/v1/data/{formID}/{dataID}/validation_status. Responds 204.
func (h *Handler) ServeClearValidationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "clear validation status")
	defer cancel()

	res, err := h.Gateway.Resolve(ctx, requester(r),
		chi.URLParam(r, "formID"), chi.URLParam(r, "dataID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	sub, ok := res.Submission()
	if !ok {
		h.writeError(w, r, resolve.ErrNotFound)
		return
	}

	if err := h.Ops.ClearValidationStatusOne(ctx, res.Form(), sub.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
