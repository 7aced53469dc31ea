package handler

import (
	"net/http"

	"Mansoor88-6/vr-event-console/internal/service"

	"go.uber.org/zap"
)

type LibraryHandler struct {
	service *service.LibraryService
	logger  *zap.Logger
}

func NewLibraryHandler(service *service.LibraryService, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{
		service: service,
		logger:  logger,
	}
}

// ListCategories passes one backend page through, pagination included
func (h *LibraryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Categories(r.Context(), queryInt(r, "page", 1), queryInt(r, "size", 0))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *LibraryHandler) ListTours(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Tours(r.Context(), queryInt(r, "page", 1), queryInt(r, "size", 0))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
