package handlers

import (
	"net/http"
)

// maxPhotoBytes bounds entry photo uploads (10MB).
const maxPhotoBytes = 10 << 20

// UploadEntryPhoto attaches a multipart "file" image to a journal entry.
func (h *Handler) UploadEntryPhoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes+1024)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		writeFailure(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	entry, err := h.Journal.AttachPhoto(r.Context(), sess, id, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Photo uploaded successfully", envelope{"entry": entry})
}
