package handler

import (
	"errors"
	"io"
	"net/http"

	"Mansoor88-6/vr-event-console/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MediaHandler struct {
	service *service.MediaService
	logger  *zap.Logger
}

func NewMediaHandler(service *service.MediaService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		service: service,
		logger:  logger,
	}
}

func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	media, err := h.service.ListMedia(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondList(w, "Media files", media)
}

// Upload streams the first "files" part of a multipart body to the backend
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reader, err := r.MultipartReader()
	if err != nil {
		respondError(w, h.logger, &service.ValidationError{Field: "body", Message: "multipart form expected"})
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			respondError(w, h.logger, &service.ValidationError{Field: "body", Message: err.Error()})
			return
		}
		if part.FormName() != "files" || part.FileName() == "" {
			part.Close()
			continue
		}

		files, err := h.service.Upload(r.Context(), part.FileName(), part)
		part.Close()
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		respond(w, http.StatusCreated, "Upload complete", files)
		return
	}

	respondError(w, h.logger, &service.ValidationError{Field: "files", Message: "a file is required"})
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "Media file deleted")
}

func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	location, err := h.service.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Media downloaded", map[string]string{"location": location})
}
