package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"Mansoor88-6/vr-event-console/internal/models"
)

// ListEvents returns one page of events, newest first as ordered by the backend
func (c *APIClient) ListEvents(ctx context.Context, page, size int) (*models.ListResponse[models.Event], error) {
	var resp models.ListResponse[models.Event]
	if err := c.doJSON(ctx, http.MethodGet, pagePath("/api/v1/event", page, size), nil, &resp); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return &resp, nil
}

// GetEvent returns the full event record, password included
func (c *APIClient) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var resp models.Response[models.Event]
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/event/detail/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return &resp.Data, nil
}

func (c *APIClient) CreateEvent(ctx context.Context, req models.EventRequest) (*models.Event, error) {
	var resp models.Response[models.Event]
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/event/create", req, &resp); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &resp.Data, nil
}

// UpdateEvent sends a partial update; only non-nil request fields are transmitted
func (c *APIClient) UpdateEvent(ctx context.Context, id string, req models.EventRequest) (*models.Event, error) {
	var resp models.Response[models.Event]
	if err := c.doJSON(ctx, http.MethodPatch, "/api/v1/event/edit/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, fmt.Errorf("update event %s: %w", id, err)
	}
	return &resp.Data, nil
}

// SetEventStreaming reports the currently playing media id (or "" when stopped)
func (c *APIClient) SetEventStreaming(ctx context.Context, id, streaming string) error {
	_, err := c.UpdateEvent(ctx, id, models.EventRequest{Streaming: models.StringPtr(streaming)})
	return err
}

func (c *APIClient) DeleteEvent(ctx context.Context, id string) error {
	var resp models.Response[any]
	if err := c.doJSON(ctx, http.MethodDelete, "/api/v1/event/delete/"+url.PathEscape(id), nil, &resp); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}
