package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"Mansoor88-6/vr-event-console/internal/models"
)

func (c *APIClient) ListCategories(ctx context.Context, page, size int) (*models.ListResponse[models.Category], error) {
	var resp models.ListResponse[models.Category]
	if err := c.doJSON(ctx, http.MethodGet, pagePath("/api/v1/category", page, size), nil, &resp); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return &resp, nil
}

func (c *APIClient) CreateCategory(ctx context.Context, req models.CategoryRequest) (*models.Category, error) {
	var resp models.Response[models.Category]
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/category/create", req, &resp); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &resp.Data, nil
}

func (c *APIClient) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var resp models.Response[models.Category]
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/category/detail/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get category %s: %w", id, err)
	}
	return &resp.Data, nil
}

func (c *APIClient) UpdateCategory(ctx context.Context, id string, req models.CategoryRequest) (*models.Category, error) {
	var resp models.Response[models.Category]
	if err := c.doJSON(ctx, http.MethodPatch, "/api/v1/category/edit/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, fmt.Errorf("update category %s: %w", id, err)
	}
	return &resp.Data, nil
}

func (c *APIClient) DeleteCategory(ctx context.Context, id string) error {
	var resp models.Response[any]
	if err := c.doJSON(ctx, http.MethodDelete, "/api/v1/category/delete/"+url.PathEscape(id), nil, &resp); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}
