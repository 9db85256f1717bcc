package api

import (
	"net/http"

	"movieclub-backend/internal/service"
)

// UploadImage accepts one multipart image under the "file" field. The
// optional "type" field picks the storage subdirectory (e.g. "poster").
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadBytes+4096)

	if err := r.ParseMultipartForm(service.MaxUploadBytes); err != nil {
		h.respondServiceError(w, r, service.ErrUploadTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondServiceError(w, r, service.ErrEmptyUpload)
		return
	}
	defer file.Close()

	url, err := h.uploads.SaveImage(file, header.Header.Get("Content-Type"), r.FormValue("type"), header.Size)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
