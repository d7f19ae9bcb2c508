// internal/app/features/data/labels.go
package data

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/datawell/datawell/internal/app/system/resolve"
	"github.com/datawell/datawell/internal/app/system/timeouts"
)

// splitLabels accepts comma or space separated tag lists, e.g.
// "animal, fruit denim" and "animal fruit denim" both yield three labels.
func splitLabels(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' '
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ServeListLabels handles GET /api/v1/data/{formID}/{dataID}/labels.
func (h *Handler) ServeListLabels(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list labels")
	defer cancel()

	res, err := h.Gateway.Resolve(ctx, requester(r),
		chi.URLParam(r, "formID"), chi.URLParam(r, "dataID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	sub, _ := res.Submission()
	labels := sub.Tags
	if labels == nil {
		labels = []string{}
	}
	writeJSON(w, http.StatusOK, labels)
}

// ServeAddLabels handles POST /api/v1/data/{formID}/{dataID}/labels with
// payload {"tags": "tag1, tag2"}. Responds 201 with the resulting label
// set.
func (h *Handler) ServeAddLabels(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "add labels")
	defer cancel()

	payload, err := decodePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "invalid JSON payload"})
		return
	}
	raw, _ := payload["tags"].(string)
	tags := splitLabels(raw)
	if len(tags) == 0 {
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "no `tags` provided"})
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

	labels, err := h.Ops.AddLabels(ctx, res.Form(), sub.ID, tags)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, labels)
}

// ServeRemoveLabel handles DELETE
// /api/v1/data/{formID}/{dataID}/labels/{label}. Responds 200 with the
// remaining labels, or 404 when the label did not exist.
func (h *Handler) ServeRemoveLabel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "remove label")
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

	labels, removed, err := h.Ops.RemoveLabel(ctx, res.Form(), sub.ID, chi.URLParam(r, "label"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if labels == nil {
		labels = []string{}
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, labels)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}
