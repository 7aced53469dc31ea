package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"Mansoor88-6/vr-event-console/internal/access"
	"Mansoor88-6/vr-event-console/internal/client"
	"Mansoor88-6/vr-event-console/internal/models"
	"Mansoor88-6/vr-event-console/internal/playback"
	"Mansoor88-6/vr-event-console/internal/service"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respond[T any](w http.ResponseWriter, status int, message string, data T) {
	writeJSON(w, status, models.Response[T]{Success: true, Message: message, Data: data})
}

func respondList[T any](w http.ResponseWriter, message string, data []T) {
	if data == nil {
		data = []T{}
	}
	writeJSON(w, http.StatusOK, models.ListResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
		Pagination: models.Pagination{
			Total: len(data),
			Page:  1,
			Size:  len(data),
		},
	})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.Response[any]{Success: status < 400, Message: message})
}

// respondError maps service and backend errors to console API statuses
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status >= 500 {
		logger.Error("Request failed", zap.Error(err))
	} else {
		logger.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	respondMessage(w, status, err.Error())
}

func statusFor(err error) int {
	var (
		notFound   *client.NotFoundError
		badRequest *client.BadRequestError
		validation *service.ValidationError
	)

	switch {
	case errors.Is(err, access.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, access.ErrMissingCredentials),
		errors.Is(err, playback.ErrOutOfRange),
		errors.As(err, &badRequest),
		errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, playback.ErrEmptyPlaylist), errors.Is(err, playback.ErrNoEvent):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &service.ValidationError{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
