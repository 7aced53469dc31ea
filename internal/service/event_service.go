package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"Mansoor88-6/vr-event-console/internal/access"
	"Mansoor88-6/vr-event-console/internal/catalog"
	"Mansoor88-6/vr-event-console/internal/models"

	"go.uber.org/zap"
)

// eventListSize fetches every event in one page; the dashboard never paginated
const eventListSize = 1000

// EventBackend is the part of the API client event management uses
type EventBackend interface {
	ListEvents(ctx context.Context, page, size int) (*models.ListResponse[models.Event], error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, req models.EventRequest) (*models.Event, error)
	UpdateEvent(ctx context.Context, id string, req models.EventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListMediaFiles(ctx context.Context) ([]models.MediaFile, error)
}

// EventView is an event as shown to the operator: no password, with its status label
type EventView struct {
	models.Event
	StatusLabel string `json:"status_label"`
}

func NewEventView(e models.Event) EventView {
	return EventView{
		Event:       e.Redacted(),
		StatusLabel: catalog.StatusLabel(e.Streaming),
	}
}

type EventService struct {
	backend  EventBackend
	gate     *access.Gate
	sessions *SessionStore
	logger   *zap.Logger
}

func NewEventService(backend EventBackend, gate *access.Gate, sessions *SessionStore, logger *zap.Logger) *EventService {
	return &EventService{
		backend:  backend,
		gate:     gate,
		sessions: sessions,
		logger:   logger,
	}
}

// ListEvents returns the events matching query, as ordered by the backend
func (s *EventService) ListEvents(ctx context.Context, query string) ([]EventView, error) {
	resp, err := s.backend.ListEvents(ctx, 1, eventListSize)
	if err != nil {
		return nil, err
	}
	return views(catalog.SearchEvents(resp.Data, query)), nil
}

// RecentEvents returns the n most recently created events
func (s *EventService) RecentEvents(ctx context.Context, n int) ([]EventView, error) {
	resp, err := s.backend.ListEvents(ctx, 1, eventListSize)
	if err != nil {
		return nil, err
	}

	events := append([]models.Event(nil), resp.Data...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	if len(events) > n {
		events = events[:n]
	}
	return views(events), nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*EventView, error) {
	event, err := s.backend.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewEventView(*event)
	return &view, nil
}

func (s *EventService) CreateEvent(ctx context.Context, req models.EventRequest) (*EventView, error) {
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "is required"}
	}
	if req.VideoList == nil {
		empty := []string{}
		req.VideoList = &empty
	}

	event, err := s.backend.CreateEvent(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Event created",
		zap.String("event_id", event.ID),
		zap.String("title", event.Title),
	)
	view := NewEventView(*event)
	return &view, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id string, req models.EventRequest) (*EventView, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "must not be empty"}
	}

	event, err := s.backend.UpdateEvent(ctx, id, req)
	if err != nil {
		return nil, err
	}
	view := NewEventView(*event)
	return &view, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.backend.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Event deleted", zap.String("event_id", id))
	return nil
}

// Access checks the event credentials and opens a session on the event
func (s *EventService) Access(ctx context.Context, id, username, password string) (*AccessGrant, error) {
	session, err := s.gate.Authenticate(ctx, id, username, password)
	if err != nil {
		return nil, err
	}
	return s.sessions.Store(session), nil
}

// Session returns an opened session by its token
func (s *EventService) Session(token string) (*AccessGrant, bool) {
	return s.sessions.Get(token)
}

// Candidates lists the media files that can be added to a playlist
func (s *EventService) Candidates(ctx context.Context) ([]models.MediaFile, error) {
	files, err := s.backend.ListMediaFiles(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Candidates(files), nil
}

// AddVideo appends mediaID to the event playlist
func (s *EventService) AddVideo(ctx context.Context, id, mediaID string) (*EventView, error) {
	if mediaID == "" {
		return nil, &ValidationError{Field: "media_id", Message: "is required"}
	}
	return s.editVideoList(ctx, id, func(list []string) []string {
		return catalog.AddVideo(list, mediaID)
	})
}

// RemoveVideo drops every occurrence of mediaID from the event playlist
func (s *EventService) RemoveVideo(ctx context.Context, id, mediaID string) (*EventView, error) {
	return s.editVideoList(ctx, id, func(list []string) []string {
		return catalog.RemoveVideo(list, mediaID)
	})
}

func (s *EventService) editVideoList(ctx context.Context, id string, edit func([]string) []string) (*EventView, error) {
	event, err := s.backend.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	list := edit(event.VideoList)
	updated, err := s.backend.UpdateEvent(ctx, id, models.EventRequest{VideoList: &list})
	if err != nil {
		return nil, fmt.Errorf("failed to update playlist of event %s: %w", id, err)
	}

	view := NewEventView(*updated)
	return &view, nil
}

func views(events []models.Event) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventView(e))
	}
	return out
}
