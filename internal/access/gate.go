// Package access implements the per-event credential check operators pass before opening an event.
package access

import (
	"context"
	"errors"
	"fmt"

	"Mansoor88-6/vr-event-console/internal/catalog"
	"Mansoor88-6/vr-event-console/internal/models"

	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("incorrect credentials")
	ErrMissingCredentials = errors.New("username and password are required")
)

// Backend is the part of the API client the gate needs
type Backend interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListMediaFiles(ctx context.Context) ([]models.MediaFile, error)
}

// Session is an opened event with its playlist resolved against the media catalog
type Session struct {
	Event  models.Event       `json:"event"`
	Videos []models.MediaFile `json:"videos"`
}

// Gate compares candidate credentials with the ones stored on the event.
// Plain equality, no lockout: the check is presentational.
type Gate struct {
	backend Backend
	logger  *zap.Logger
}

func NewGate(backend Backend, logger *zap.Logger) *Gate {
	return &Gate{backend: backend, logger: logger}
}

// Authenticate grants a session iff both fields equal the event's username and password
func (g *Gate) Authenticate(ctx context.Context, eventID, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	event, err := g.backend.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", eventID, err)
	}

	if username != event.Username || password != event.Password {
		g.logger.Info("Event access denied",
			zap.String("event_id", eventID),
			zap.String("username", username),
		)
		return nil, ErrInvalidCredentials
	}

	files, err := g.backend.ListMediaFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media catalog: %w", err)
	}

	session := &Session{
		Event:  event.Redacted(),
		Videos: catalog.ResolveVideoList(event.VideoList, files),
	}

	g.logger.Info("Event access granted",
		zap.String("event_id", eventID),
		zap.Int("videos", len(session.Videos)),
	)
	return session, nil
}
