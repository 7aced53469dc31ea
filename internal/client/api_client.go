package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// APIClient handles communication with the VR event backend
type APIClient struct {
	baseURL    string
	consoleID  string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger

	deviceFixtures bool

	mu    sync.RWMutex
	token string // bearer token from login or config
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, consoleID string, timeout time.Duration, logger *zap.Logger) *APIClient {
	return &APIClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		consoleID: consoleID,
		timeout:   timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SetToken sets the bearer token sent with every request
func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token
func (c *APIClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the backend base URL without a trailing slash
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// outcome is implemented by the backend envelopes
type outcome interface {
	Outcome() (bool, string)
}

// doJSON sends body (if any) as JSON and decodes the response into out (if any)
func (c *APIClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}
	return c.do(ctx, method, path, "application/json", reader, out)
}

func (c *APIClient) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.consoleID != "" {
		req.Header.Set("X-Console-ID", c.consoleID)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("Backend request failed",
			zap.Error(err),
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("duration", duration),
		)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(method, path, resp.StatusCode, respBody)
	}

	c.logger.Debug("Backend request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if env, ok := out.(outcome); ok {
		if success, message := env.Outcome(); !success {
			return &EnvelopeError{Message: message, Path: path}
		}
	}
	return nil
}

// statusError maps a non-2xx status to a typed error
func (c *APIClient) statusError(method, path string, statusCode int, body []byte) error {
	errMsg := fmt.Sprintf("backend returned status %d: %s", statusCode, backendMessage(body))

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.Error("Authentication failed",
			zap.String("path", path),
			zap.Int("status_code", statusCode),
		)
		return &AuthError{Message: errMsg, StatusCode: statusCode}
	case http.StatusNotFound:
		c.logger.Warn("Resource not found",
			zap.String("method", method),
			zap.String("path", path),
		)
		return &NotFoundError{Message: errMsg, StatusCode: statusCode}
	case http.StatusTooManyRequests:
		c.logger.Warn("Rate limited",
			zap.String("path", path),
			zap.Int("status_code", statusCode),
		)
		return &RateLimitError{Message: errMsg, StatusCode: statusCode}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		c.logger.Error("Invalid request",
			zap.String("path", path),
			zap.Int("status_code", statusCode),
			zap.String("response", string(body)),
		)
		return &BadRequestError{Message: errMsg, StatusCode: statusCode}
	default:
		c.logger.Error("Backend error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", statusCode),
			zap.String("response", string(body)),
		)
		return &BackendError{Message: errMsg, StatusCode: statusCode}
	}
}

// backendMessage extracts the envelope message from an error body when there is one
func backendMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return strings.TrimSpace(string(body))
}

// HealthCheck checks if the backend is reachable
func (c *APIClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// Error types
type AuthError struct {
	Message    string
	StatusCode int
}

func (e *AuthError) Error() string {
	return e.Message
}

type NotFoundError struct {
	Message    string
	StatusCode int
}

func (e *NotFoundError) Error() string {
	return e.Message
}

type RateLimitError struct {
	Message    string
	StatusCode int
}

func (e *RateLimitError) Error() string {
	return e.Message
}

type BadRequestError struct {
	Message    string
	StatusCode int
}

func (e *BadRequestError) Error() string {
	return e.Message
}

type BackendError struct {
	Message    string
	StatusCode int
}

func (e *BackendError) Error() string {
	return e.Message
}

// EnvelopeError is returned when the backend answers 2xx with success=false
type EnvelopeError struct {
	Message string
	Path    string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected %s", e.Path)
	}
	return fmt.Sprintf("backend rejected %s: %s", e.Path, e.Message)
}
