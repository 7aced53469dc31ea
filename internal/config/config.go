package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the console configuration loaded from YAML with environment overrides
type Config struct {
	Env         string          `yaml:"env" env:"VR_CONSOLE_ENV" env-default:"local"`
	StoragePath string          `yaml:"storage_path" env:"VR_CONSOLE_STORAGE_PATH" env-default:"./vr-console.db"`
	Log         LogConfig       `yaml:"log"`
	Backend     BackendConfig   `yaml:"backend"`
	Auth        AuthConfig      `yaml:"auth"`
	Console     ConsoleConfig   `yaml:"console"`
	Server      ServerConfig    `yaml:"server"`
	Streaming   StreamingConfig `yaml:"streaming"`
	Player      PlayerConfig    `yaml:"player"`
	Download    DownloadConfig  `yaml:"download"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"VR_CONSOLE_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"VR_CONSOLE_LOG_FORMAT" env-default:"json"`
}

// BackendConfig describes the external VR event backend
type BackendConfig struct {
	BaseURL        string        `yaml:"base_url" env:"VR_BACKEND_URL"`
	MediaBaseURL   string        `yaml:"media_base_url" env:"VR_MEDIA_BASE_URL"`
	Timeout        time.Duration `yaml:"timeout" env:"VR_BACKEND_TIMEOUT" env-default:"15s"`
	DeviceFixtures bool          `yaml:"device_fixtures" env:"VR_DEVICE_FIXTURES"`
}

type AuthConfig struct {
	Email    string `yaml:"email" env:"VR_AUTH_EMAIL"`
	Password string `yaml:"password" env:"VR_AUTH_PASSWORD"`
	Token    string `yaml:"token" env:"VR_AUTH_TOKEN"`
}

type ConsoleConfig struct {
	ID       string `yaml:"id" env:"VR_CONSOLE_ID"`
	Operator string `yaml:"operator" env:"VR_CONSOLE_OPERATOR" env-default:"admin"`
}

type ServerConfig struct {
	Enabled bool   `yaml:"enabled" env:"VR_CONSOLE_SERVER_ENABLED"`
	Host    string `yaml:"host" env:"VR_CONSOLE_HOST" env-default:"localhost"`
	Port    int    `yaml:"port" env:"VR_CONSOLE_PORT" env-default:"8090"`
}

// StreamingConfig tunes the snapshot poller, device poller and status reports
type StreamingConfig struct {
	PollInterval        time.Duration `yaml:"poll_interval" env:"VR_STREAMING_POLL_INTERVAL" env-default:"1s"`
	SnapshotPrefix      string        `yaml:"snapshot_prefix" env:"VR_STREAMING_SNAPSHOT_PREFIX" env-default:"public/streaming"`
	DevicePollInterval  time.Duration `yaml:"device_poll_interval" env:"VR_STREAMING_DEVICE_POLL_INTERVAL" env-default:"10s"`
	ReportStatus        bool          `yaml:"report_status" env:"VR_STREAMING_REPORT_STATUS"`
	ReportRetryInterval time.Duration `yaml:"report_retry_interval" env:"VR_STREAMING_REPORT_RETRY_INTERVAL" env-default:"30s"`
	ReportFlushInterval time.Duration `yaml:"report_flush_interval" env:"VR_STREAMING_REPORT_FLUSH_INTERVAL" env-default:"500ms"`
}

type PlayerConfig struct {
	Command string   `yaml:"command" env:"VR_PLAYER_COMMAND" env-default:"mpv"`
	Args    []string `yaml:"args" env:"VR_PLAYER_ARGS" env-separator:" "`
}

// DownloadConfig selects the media download sink; S3 wins when a bucket is set
type DownloadConfig struct {
	Dir      string `yaml:"dir" env:"VR_DOWNLOAD_DIR" env-default:"./downloads"`
	S3Bucket string `yaml:"s3_bucket" env:"VR_DOWNLOAD_S3_BUCKET"`
	S3Region string `yaml:"s3_region" env:"VR_DOWNLOAD_S3_REGION" env-default:"us-east-1"`
}

// LoadConfig reads the YAML file at path and applies environment overrides
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if cfg.Backend.MediaBaseURL == "" {
		cfg.Backend.MediaBaseURL = cfg.Backend.BaseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values the console cannot run without
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if c.Streaming.PollInterval <= 0 {
		return fmt.Errorf("streaming.poll_interval must be positive")
	}
	if c.Streaming.DevicePollInterval <= 0 {
		return fmt.Errorf("streaming.device_poll_interval must be positive")
	}
	if c.Streaming.ReportRetryInterval <= 0 {
		return fmt.Errorf("streaming.report_retry_interval must be positive")
	}
	if c.Streaming.ReportFlushInterval <= 0 {
		return fmt.Errorf("streaming.report_flush_interval must be positive")
	}
	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Player.Command == "" {
		return fmt.Errorf("player.command is required")
	}
	return nil
}

// Address returns the listen address of the console API
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
