// Package auth obtains the backend bearer token the console runs with.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"Mansoor88-6/vr-event-console/internal/client"
	"Mansoor88-6/vr-event-console/internal/config"
	"Mansoor88-6/vr-event-console/internal/models"

	"go.uber.org/zap"
)

var ErrNoCredentials = errors.New("no token and no email/password configured")

// Backend is the part of the API client the login flow needs
type Backend interface {
	SetToken(token string)
	Login(ctx context.Context, email, password string) (*models.AuthData, error)
	Me(ctx context.Context) (*models.User, error)
}

// LoginService reuses a configured token or logs in and persists the new one
type LoginService struct {
	backend    Backend
	configPath string
	logger     *zap.Logger
}

func NewLoginService(backend Backend, configPath string, logger *zap.Logger) *LoginService {
	return &LoginService{
		backend:    backend,
		configPath: configPath,
		logger:     logger,
	}
}

// EnsureToken leaves the client holding a working token and returns the user it belongs to
func (s *LoginService) EnsureToken(ctx context.Context, cfg *config.Config) (*models.User, error) {
	if cfg.Auth.Token != "" {
		s.backend.SetToken(cfg.Auth.Token)
		user, err := s.backend.Me(ctx)
		if err == nil {
			s.logger.Info("Using existing token", zap.String("username", user.Username))
			return user, nil
		}

		var authErr *client.AuthError
		if !errors.As(err, &authErr) {
			return nil, fmt.Errorf("failed to verify token: %w", err)
		}
		s.logger.Warn("Configured token rejected, logging in again")
		s.backend.SetToken("")
	}

	if cfg.Auth.Email == "" || cfg.Auth.Password == "" {
		return nil, ErrNoCredentials
	}

	data, err := s.backend.Login(ctx, cfg.Auth.Email, cfg.Auth.Password)
	if err != nil {
		return nil, err
	}

	cfg.Auth.Token = data.Token
	if s.configPath != "" {
		if err := SaveToken(s.configPath, data.Token); err != nil {
			s.logger.Warn("Failed to save token to config", zap.Error(err))
		} else {
			s.logger.Info("Token saved to config")
		}
	}

	return &data.User, nil
}

// SaveToken writes token into the auth section of the YAML file at path
func SaveToken(path, token string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	tokenLine := fmt.Sprintf("  token: %q", token)

	section := -1
	for i, line := range lines {
		if strings.TrimRight(line, " \r") == "auth:" {
			section = i
			break
		}
	}
	if section < 0 {
		return fmt.Errorf("could not find auth section in config file")
	}

	found := false
	for i := section + 1; i < len(lines); i++ {
		line := lines[i]
		if line != "" && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			break // next top-level key
		}
		if strings.HasPrefix(strings.TrimSpace(line), "token:") {
			lines[i] = tokenLine
			found = true
			break
		}
	}

	if !found {
		lines = append(lines[:section+1], append([]string{tokenLine}, lines[section+1:]...)...)
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
