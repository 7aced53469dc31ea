package client

import (
	"context"
	"fmt"
	"net/http"

	"Mansoor88-6/vr-event-console/internal/models"

	"go.uber.org/zap"
)

// Login authenticates with email/password and keeps the returned token for later calls
func (c *APIClient) Login(ctx context.Context, email, password string) (*models.AuthData, error) {
	var resp models.Response[models.AuthData]
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.Data.Token == "" {
		return nil, fmt.Errorf("login: backend returned empty token")
	}

	c.SetToken(resp.Data.Token)
	c.logger.Info("Logged in to backend",
		zap.String("user_id", resp.Data.User.ID),
		zap.String("username", resp.Data.User.Username),
	)
	return &resp.Data, nil
}

// Signup registers a new operator account
func (c *APIClient) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthData, error) {
	var resp models.Response[models.AuthData]
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/signup", req, &resp); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return &resp.Data, nil
}

// Me returns the user the current token belongs to
func (c *APIClient) Me(ctx context.Context) (*models.User, error) {
	var resp models.Response[models.User]
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/auth/me", nil, &resp); err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return &resp.Data, nil
}

// ListUsers returns one page of users
func (c *APIClient) ListUsers(ctx context.Context, page, size int) (*models.ListResponse[models.User], error) {
	var resp models.ListResponse[models.User]
	if err := c.doJSON(ctx, http.MethodGet, pagePath("/api/v1/auth", page, size), nil, &resp); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &resp, nil
}

// Logout forgets the token
func (c *APIClient) Logout() {
	c.SetToken("")
}

// IsAuthenticated reports whether a token is set
func (c *APIClient) IsAuthenticated() bool {
	return c.Token() != ""
}

func pagePath(base string, page, size int) string {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	return fmt.Sprintf("%s?page=%d&size=%d", base, page, size)
}
