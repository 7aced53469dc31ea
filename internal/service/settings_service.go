package service

import (
	"time"

	"Mansoor88-6/vr-event-console/internal/repository"

	"go.uber.org/zap"
)

type SettingsService struct {
	repo     *repository.SettingsRepository
	sessions *SessionStore
	logger   *zap.Logger
}

func NewSettingsService(repo *repository.SettingsRepository, sessions *SessionStore, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *SettingsService) Get() (repository.Settings, error) {
	return s.repo.Get()
}

// Update validates and stores the settings document, then applies the session timeout
func (s *SettingsService) Update(settings repository.Settings) (repository.Settings, error) {
	if err := settings.Validate(); err != nil {
		return repository.Settings{}, &ValidationError{Field: "settings", Message: err.Error()}
	}
	if err := s.repo.Save(settings); err != nil {
		return repository.Settings{}, err
	}

	s.sessions.SetTTL(SessionTTL(settings))
	s.logger.Info("Settings updated",
		zap.String("language", settings.Language),
		zap.Int("session_timeout", settings.SessionTimeout),
	)
	return settings, nil
}

// Volume returns the player volume, falling back to full volume when settings cannot be read
func (s *SettingsService) Volume() int {
	settings, err := s.repo.Get()
	if err != nil {
		s.logger.Warn("Failed to read settings, using full volume", zap.Error(err))
		return 100
	}
	return settings.Volume
}

// SessionTTL converts the settings session timeout; zero falls back to the default
func SessionTTL(settings repository.Settings) time.Duration {
	minutes := settings.SessionTimeout
	if minutes <= 0 {
		minutes = repository.DefaultSettings().SessionTimeout
	}
	return time.Duration(minutes) * time.Minute
}
