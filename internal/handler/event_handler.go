package handler

import (
	"net/http"

	"Mansoor88-6/vr-event-console/internal/models"
	"Mansoor88-6/vr-event-console/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EventHandler struct {
	service *service.EventService
	logger  *zap.Logger
}

func NewEventHandler(service *service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

type accessRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type videoRequest struct {
	MediaID string `json:"media_id"`
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondList(w, "Events", events)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, "Event created", event)
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Event", event)
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	event, err := h.service.UpdateEvent(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Event updated", event)
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "Event deleted")
}

// Access opens the event when the credentials match the ones stored on it
func (h *EventHandler) Access(w http.ResponseWriter, r *http.Request) {
	var req accessRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	grant, err := h.service.Access(r.Context(), chi.URLParam(r, "id"), req.Username, req.Password)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Access granted", grant)
}

func (h *EventHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	grant, ok := h.service.Session(chi.URLParam(r, "token"))
	if !ok {
		respondMessage(w, http.StatusNotFound, "session not found or expired")
		return
	}
	respond(w, http.StatusOK, "Session", grant)
}

func (h *EventHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	files, err := h.service.Candidates(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondList(w, "Playlist candidates", files)
}

func (h *EventHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	var req videoRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	event, err := h.service.AddVideo(r.Context(), chi.URLParam(r, "id"), req.MediaID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Video added", event)
}

func (h *EventHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.RemoveVideo(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "mediaID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Video removed", event)
}
