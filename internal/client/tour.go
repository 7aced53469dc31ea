package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"Mansoor88-6/vr-event-console/internal/models"
)

// DefaultTourPageSize matches the tour grid of the dashboard
const DefaultTourPageSize = 4

func (c *APIClient) ListTours(ctx context.Context, page, size int) (*models.ListResponse[models.Tour], error) {
	if size < 1 {
		size = DefaultTourPageSize
	}
	var resp models.ListResponse[models.Tour]
	if err := c.doJSON(ctx, http.MethodGet, pagePath("/api/v1/tour", page, size), nil, &resp); err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	return &resp, nil
}

func (c *APIClient) CreateTour(ctx context.Context, req models.TourRequest) (*models.Tour, error) {
	var resp models.Response[models.Tour]
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/tour/create", req, &resp); err != nil {
		return nil, fmt.Errorf("create tour: %w", err)
	}
	return &resp.Data, nil
}

func (c *APIClient) GetTour(ctx context.Context, id string) (*models.Tour, error) {
	var resp models.Response[models.Tour]
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/tour/detail/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get tour %s: %w", id, err)
	}
	return &resp.Data, nil
}

func (c *APIClient) UpdateTour(ctx context.Context, id string, req models.TourRequest) (*models.Tour, error) {
	var resp models.Response[models.Tour]
	if err := c.doJSON(ctx, http.MethodPatch, "/api/v1/tour/edit/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, fmt.Errorf("update tour %s: %w", id, err)
	}
	return &resp.Data, nil
}

func (c *APIClient) DeleteTour(ctx context.Context, id string) error {
	var resp models.Response[any]
	if err := c.doJSON(ctx, http.MethodDelete, "/api/v1/tour/delete/"+url.PathEscape(id), nil, &resp); err != nil {
		return fmt.Errorf("delete tour %s: %w", id, err)
	}
	return nil
}
