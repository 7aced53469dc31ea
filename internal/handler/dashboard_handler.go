package handler

import (
	"net/http"

	"Mansoor88-6/vr-event-console/internal/repository"
	"Mansoor88-6/vr-event-console/internal/service"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
	settings  *service.SettingsService
	logger    *zap.Logger
}

func NewDashboardHandler(dashboard *service.DashboardService, settings *service.SettingsService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		settings:  settings,
		logger:    logger,
	}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Dashboard", summary)
}

func (h *DashboardHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Settings", settings)
}

func (h *DashboardHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	// fields missing from the body keep their stored values
	if err := decodeBody(r, &settings); err != nil {
		respondError(w, h.logger, err)
		return
	}

	saved, err := h.settings.Update(settings)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond[repository.Settings](w, http.StatusOK, "Settings saved", saved)
}
