// internal/app/features/data/single.go
package data

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/datawell/datawell/internal/app/system/resolve"
	"github.com/datawell/datawell/internal/app/system/timeouts"
	"github.com/datawell/datawell/internal/domain/models"
)

// ServeListForms handles GET /api/v1/data. Returns the forms visible to
// the requester, narrowed by the optional comma-separated `tags` query
// parameter.
func (h *Handler) ServeListForms(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list forms")
	defer cancel()

	forms, err := h.Gateway.ListForms(ctx, requester(r), r.URL.Query().Get("tags"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if forms == nil {
		forms = []models.Form{}
	}
	writeJSON(w, http.StatusOK, forms)
}

// ServeRetrieve handles GET /api/v1/data/{formID}/{dataID}.
func (h *Handler) ServeRetrieve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "retrieve submission")
	defer cancel()

	res, err := h.Gateway.Resolve(ctx, requester(r),
		chi.URLParam(r, "formID"), chi.URLParam(r, "dataID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	sub, _ := res.Submission()
	writeJSON(w, http.StatusOK, sub)
}

// ServeDestroy handles DELETE /api/v1/data/{formID}/{dataID}. A single
// delete runs the normal per-row side effects (mirror removal, counter
// decrement). Responds 204.
func (h *Handler) ServeDestroy(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "destroy submission")
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

	if err := h.Ops.DeleteOne(ctx, res.Form(), sub.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
