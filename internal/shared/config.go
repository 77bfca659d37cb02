package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	API         APIConfig         `toml:"api"`
	Notes       NotesConfig       `toml:"notes"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains the Habitica API credentials.
//
// UserID and APIKey are sent as the x-api-user and x-api-key headers; Client
// is the x-client identifier the API asks integrations to send.
type CredentialsConfig struct {
	UserID string `toml:"user_id"`
	APIKey string `toml:"api_key"`
	Client string `toml:"client"`
}

// Validate checks that the credentials required for any API call are present.
func (c CredentialsConfig) Validate() error {
	if c.UserID == "" || c.APIKey == "" {
		return fmt.Errorf("%w: user_id and api_key are required", ErrMissingCredentials)
	}
	return nil
}

// APIConfig contains request settings for the Habitica API.
type APIConfig struct {
	BaseURL                string  `toml:"base_url"`
	TimeoutSeconds         int     `toml:"timeout_seconds"`
	RateLimitBufferSeconds int     `toml:"rate_limit_buffer_seconds"`
	RequestsPerSecond      float64 `toml:"requests_per_second"`
}

// Timeout returns the per-request timeout as a [time.Duration].
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// RateBuffer returns the extra wait added past a quota reset instant.
func (a APIConfig) RateBuffer() time.Duration {
	return time.Duration(a.RateLimitBufferSeconds) * time.Second
}

// NotesConfig controls note generation and the live panel.
type NotesConfig struct {
	Folder       string `toml:"folder"`
	Tag          string `toml:"tag"`
	Indent       string `toml:"indent"`
	SyncEnabled  bool   `toml:"sync_enabled"`
	PanelEnabled bool   `toml:"panel_enabled"`
}

// DatabaseConfig contains history database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
