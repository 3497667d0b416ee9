package handlers

import (
	"net/http"
	"strconv"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/AnshRaj112/promisu-backend/internal/services"
	"github.com/AnshRaj112/promisu-backend/internal/store"
)

// UpdateStatusRequest is the body of PUT /api/promises/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListTemplates returns the suggested promises. No session is needed.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "", envelope{"templates": h.Promises.Templates()})
}

func (h *Handler) CreatePromise(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	var req models.PromiseInput
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.Promises.Create(r.Context(), sess, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Promise created", envelope{"promise": p})
}

// ListPromises supports ?status=, ?order= and ?asc=true.
func (h *Handler) ListPromises(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts := store.ListOptions{OrderBy: q.Get("order")}
	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		opts.Status = status
	}
	if raw := q.Get("asc"); raw != "" {
		asc, err := strconv.ParseBool(raw)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "asc must be true or false")
			return
		}
		opts.Ascending = asc
	}

	promises, err := h.Promises.List(r.Context(), sess, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"promises": promises, "total": len(promises)})
}

// GetPromise returns the promise together with its progress snapshot.
func (h *Handler) GetPromise(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	p, err := h.Promises.Get(r.Context(), sess, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := h.Promises.Progress(r.Context(), sess, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"promise": services.PromiseView{Promise: p, Progress: snap}})
}

func (h *Handler) UpdatePromiseStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Promises.UpdateStatus(r.Context(), sess, id, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Promise updated", envelope{"promise": p})
}

func (h *Handler) DeletePromise(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Promises.Delete(r.Context(), sess, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Promise deleted", nil)
}

func (h *Handler) PromiseProgress(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	snap, err := h.Promises.Progress(r.Context(), sess, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"progress": snap})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	dash, err := h.Promises.Dashboard(r.Context(), sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{
		"summary":   dash.Summary,
		"promises":  dash.Promises,
		"due_today": dash.DueToday,
	})
}
