package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"Mansoor88-6/vr-event-console/internal/models"
)

// ListDevices returns one page of devices, or the static fixtures when fixture mode is on
func (c *APIClient) ListDevices(ctx context.Context, page, size int) (*models.ListResponse[models.Device], error) {
	if c.deviceFixtures {
		devices := FixtureDevices(time.Now())
		return &models.ListResponse[models.Device]{
			Success:    true,
			Message:    "Fake data",
			Data:       devices,
			Pagination: models.Pagination{Total: len(devices), Page: 1, Size: 10},
		}, nil
	}

	var resp models.ListResponse[models.Device]
	if err := c.doJSON(ctx, http.MethodGet, pagePath("/api/v1/device", page, size), nil, &resp); err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return &resp, nil
}

func (c *APIClient) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	var resp models.Response[models.Device]
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/device/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get device %s: %w", id, err)
	}
	return &resp.Data, nil
}

func (c *APIClient) CreateDevice(ctx context.Context, req models.DeviceRequest) (*models.Device, error) {
	var resp models.Response[models.Device]
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/device", req, &resp); err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	return &resp.Data, nil
}

func (c *APIClient) UpdateDevice(ctx context.Context, id string, req models.DeviceRequest) (*models.Device, error) {
	var resp models.Response[models.Device]
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/device/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, fmt.Errorf("update device %s: %w", id, err)
	}
	return &resp.Data, nil
}

func (c *APIClient) DeleteDevice(ctx context.Context, id string) error {
	var resp models.Response[any]
	if err := c.doJSON(ctx, http.MethodDelete, "/api/v1/device/"+url.PathEscape(id), nil, &resp); err != nil {
		return fmt.Errorf("delete device %s: %w", id, err)
	}
	return nil
}

// UseDeviceFixtures switches the device listing to static fixture data
func (c *APIClient) UseDeviceFixtures(enabled bool) {
	c.deviceFixtures = enabled
}

// FixtureDevices is the static headset list served while the device endpoint is unavailable
func FixtureDevices(now time.Time) []models.Device {
	return []models.Device{
		{
			ID:             "dev001",
			Name:           "Oculus Quest 2 #001",
			IsActive:       true,
			StreamingEvent: "event001",
			Activity:       "Watching video A",
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             "dev002",
			Name:           "HTC Vive Pro #002",
			IsActive:       true,
			StreamingEvent: "event001",
			Activity:       "In menu",
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:        "dev003",
			Name:      "Pico 4 #003",
			IsActive:  false,
			Activity:  "Disconnected",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
