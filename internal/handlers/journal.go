package handlers

import (
	"net/http"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/AnshRaj112/promisu-backend/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ToggleRequest is the body of POST /api/entries/toggle.
type ToggleRequest struct {
	PromiseID uuid.UUID `json:"promise_id"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes"`
}

type MoodRequest struct {
	Mood int `json:"mood"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

// ToggleToday marks today's completion of a promise.
func (h *Handler) ToggleToday(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	var req ToggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PromiseID == uuid.Nil {
		writeFailure(w, http.StatusBadRequest, "promise_id is required")
		return
	}

	entry, err := h.Journal.ToggleToday(r.Context(), sess, req.PromiseID, req.Completed, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Entry saved", envelope{"entry": entry})
}

// ListEntries supports ?promise_id=, ?from= and ?to= (YYYY-MM-DD, inclusive).
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var f store.EntryFilter
	if raw := q.Get("promise_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "Invalid promise_id")
			return
		}
		f.PromiseID = id
	}
	for _, p := range []struct {
		name string
		dst  *models.Date
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, p.name+" must use the YYYY-MM-DD format")
			return
		}
		*p.dst = d
	}

	entries, err := h.Journal.List(r.Context(), sess, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"entries": entries, "total": len(entries)})
}

func (h *Handler) UpdateMood(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req MoodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.Journal.UpdateMood(r.Context(), sess, id, req.Mood)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Mood saved", envelope{"entry": entry})
}

func (h *Handler) UpdateEntryNotes(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req NotesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.Journal.UpdateNotes(r.Context(), sess, id, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Notes saved", envelope{"entry": entry})
}

// TodayJournal returns today's due promises and general notes.
func (h *Handler) TodayJournal(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	due, err := h.Journal.Today(r.Context(), sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	journal, err := h.Daily.Today(r.Context(), sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"journal": journal, "due_today": due})
}

func (h *Handler) GetJournal(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	journal, err := h.Daily.Get(r.Context(), sess, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"journal": journal})
}

func (h *Handler) SaveJournalNotes(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	var req NotesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	journal, err := h.Daily.SaveNotes(r.Context(), sess, date, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Journal saved", envelope{"journal": journal})
}

func dateParam(w http.ResponseWriter, r *http.Request) (models.Date, bool) {
	d, err := models.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "date must use the YYYY-MM-DD format")
		return models.Date{}, false
	}
	return d, true
}
