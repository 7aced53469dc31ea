package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const settingsKey = "console"

// Settings is the operator's console settings document
type Settings struct {
	Profile        Profile `json:"profile"`
	VRQuality      string  `json:"vr_quality"`
	FrameRate      int     `json:"frame_rate"`
	AutoStream     bool    `json:"auto_stream"`
	Notifications  bool    `json:"notifications"`
	Language       string  `json:"language"`
	SessionTimeout int     `json:"session_timeout"` // minutes
	Volume         int     `json:"volume"`          // 0-100, passed to the player
}

type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// DefaultSettings mirrors the dashboard's initial settings screen
func DefaultSettings() Settings {
	return Settings{
		Profile:        Profile{Name: "Admin"},
		VRQuality:      "high",
		FrameRate:      60,
		AutoStream:     false,
		Notifications:  true,
		Language:       "en",
		SessionTimeout: 30,
		Volume:         100,
	}
}

// Validate rejects values the player and the dashboard cannot use
func (s Settings) Validate() error {
	if s.FrameRate < 0 {
		return fmt.Errorf("frame_rate must not be negative")
	}
	if s.Volume < 0 || s.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100")
	}
	if s.SessionTimeout < 0 {
		return fmt.Errorf("session_timeout must not be negative")
	}
	return nil
}

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored settings, or the defaults when none were saved yet
func (r *SettingsRepository) Get() (Settings, error) {
	var raw string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, settingsKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

func (r *SettingsRepository) Save(settings Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, settingsKey, string(raw), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
