package client

import (
	"context"
	"net/http"
	"testing"

	"Mansoor88-6/vr-event-console/internal/models"
)

func TestResourceRoutes(t *testing.T) {
	name := "Quest 3"
	active := true

	tests := []struct {
		name   string
		call   func(ctx context.Context, c *APIClient) error
		method string
		target string
	}{
		{"list categories", func(ctx context.Context, c *APIClient) error {
			_, err := c.ListCategories(ctx, 2, 20)
			return err
		}, http.MethodGet, "/api/v1/category?page=2&size=20"},
		{"create category", func(ctx context.Context, c *APIClient) error {
			_, err := c.CreateCategory(ctx, models.CategoryRequest{Title: "Nature"})
			return err
		}, http.MethodPost, "/api/v1/category/create"},
		{"get category", func(ctx context.Context, c *APIClient) error {
			_, err := c.GetCategory(ctx, "c1")
			return err
		}, http.MethodGet, "/api/v1/category/detail/c1"},
		{"update category", func(ctx context.Context, c *APIClient) error {
			_, err := c.UpdateCategory(ctx, "c1", models.CategoryRequest{Description: "d"})
			return err
		}, http.MethodPatch, "/api/v1/category/edit/c1"},
		{"delete category", func(ctx context.Context, c *APIClient) error {
			return c.DeleteCategory(ctx, "c1")
		}, http.MethodDelete, "/api/v1/category/delete/c1"},
		{"list tours default size", func(ctx context.Context, c *APIClient) error {
			_, err := c.ListTours(ctx, 1, 0)
			return err
		}, http.MethodGet, "/api/v1/tour?page=1&size=4"},
		{"create tour", func(ctx context.Context, c *APIClient) error {
			_, err := c.CreateTour(ctx, models.TourRequest{Title: "Ha Long"})
			return err
		}, http.MethodPost, "/api/v1/tour/create"},
		{"get tour", func(ctx context.Context, c *APIClient) error {
			_, err := c.GetTour(ctx, "t1")
			return err
		}, http.MethodGet, "/api/v1/tour/detail/t1"},
		{"update tour", func(ctx context.Context, c *APIClient) error {
			_, err := c.UpdateTour(ctx, "t1", models.TourRequest{Title: "Hue"})
			return err
		}, http.MethodPatch, "/api/v1/tour/edit/t1"},
		{"delete tour", func(ctx context.Context, c *APIClient) error {
			return c.DeleteTour(ctx, "t1")
		}, http.MethodDelete, "/api/v1/tour/delete/t1"},
		{"list devices", func(ctx context.Context, c *APIClient) error {
			_, err := c.ListDevices(ctx, 0, 0)
			return err
		}, http.MethodGet, "/api/v1/device?page=1&size=10"},
		{"get device", func(ctx context.Context, c *APIClient) error {
			_, err := c.GetDevice(ctx, "d1")
			return err
		}, http.MethodGet, "/api/v1/device/d1"},
		{"create device", func(ctx context.Context, c *APIClient) error {
			_, err := c.CreateDevice(ctx, models.DeviceRequest{Name: &name})
			return err
		}, http.MethodPost, "/api/v1/device"},
		{"update device", func(ctx context.Context, c *APIClient) error {
			_, err := c.UpdateDevice(ctx, "d1", models.DeviceRequest{IsActive: &active})
			return err
		}, http.MethodPut, "/api/v1/device/d1"},
		{"delete device", func(ctx context.Context, c *APIClient) error {
			return c.DeleteDevice(ctx, "d1")
		}, http.MethodDelete, "/api/v1/device/d1"},
		{"signup", func(ctx context.Context, c *APIClient) error {
			_, err := c.Signup(ctx, models.SignupRequest{Username: "ops"})
			return err
		}, http.MethodPost, "/api/v1/auth/signup"},
		{"list users", func(ctx context.Context, c *APIClient) error {
			_, err := c.ListUsers(ctx, 3, 5)
			return err
		}, http.MethodGet, "/api/v1/auth?page=3&size=5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var method, target string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				method = r.Method
				target = r.URL.RequestURI()
				writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": nil})
			})

			if err := tt.call(context.Background(), c); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if method != tt.method || target != tt.target {
				t.Fatalf("got %s %s, want %s %s", method, target, tt.method, tt.target)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	healthy := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := c.HealthCheck(context.Background()); err != nil {
		t.Fatalf("expected healthy backend, got %v", err)
	}
	healthy = false
	if err := c.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error for unavailable backend")
	}
}
