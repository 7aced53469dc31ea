package handler

import (
	"net/http"

	"Mansoor88-6/vr-event-console/internal/service"

	"go.uber.org/zap"
)

type StreamingHandler struct {
	service *service.StreamingService
	logger  *zap.Logger
}

func NewStreamingHandler(service *service.StreamingService, logger *zap.Logger) *StreamingHandler {
	return &StreamingHandler{
		service: service,
		logger:  logger,
	}
}

type selectRequest struct {
	EventID string `json:"event_id"`
}

type playRequest struct {
	Index *int `json:"index"`
}

func (h *StreamingHandler) Status(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "Streaming status", h.service.Status())
}

func (h *StreamingHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if req.EventID == "" {
		respondError(w, h.logger, &service.ValidationError{Field: "event_id", Message: "is required"})
		return
	}

	status, err := h.service.SelectEvent(r.Context(), req.EventID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Event selected", status)
}

// Play accepts an optional {"index": n}; an empty body plays the current item
func (h *StreamingHandler) Play(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			respondError(w, h.logger, err)
			return
		}
	}

	status, err := h.service.Play(req.Index)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Playing", status)
}

func (h *StreamingHandler) Pause(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "Paused", h.service.Pause())
}

func (h *StreamingHandler) Next(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Next()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Playing next", status)
}

func (h *StreamingHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := h.service.Snapshot()
	if snapshot == nil {
		respondMessage(w, http.StatusNotFound, "no snapshot yet")
		return
	}
	respond(w, http.StatusOK, "Snapshot", snapshot)
}

func (h *StreamingHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.History(
		r.URL.Query().Get("event_id"),
		queryInt(r, "limit", 50),
		queryInt(r, "offset", 0),
	)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondList(w, "Playback history", entries)
}

func (h *StreamingHandler) Devices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.service.Devices(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondList(w, "Devices", devices)
}
