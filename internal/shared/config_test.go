package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "https://habitica.com/api/v3" {
			t.Errorf("expected default base URL, got %s", config.API.BaseURL)
		}

		if config.Database.Path != "./habsync.db" {
			t.Errorf("expected database path ./habsync.db, got %s", config.Database.Path)
		}

		if config.Notes.Folder != "./habitica" {
			t.Errorf("expected notes folder ./habitica, got %s", config.Notes.Folder)
		}

		if !config.Notes.SyncEnabled {
			t.Error("expected note sync to default to enabled")
		}

		if config.API.Timeout() != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", config.API.Timeout())
		}

		if config.API.RateBuffer() != 2*time.Second {
			t.Errorf("expected 2s rate buffer, got %v", config.API.RateBuffer())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials]
user_id = "uid-1234"
api_key = "key-5678"
client = "uid-1234 - habsync"

[api]
base_url = "http://localhost:9090/api/v3"
timeout_seconds = 5
rate_limit_buffer_seconds = 1
requests_per_second = 2.0

[notes]
folder = "/vault/habitica"
tag = "#hab"
indent = "  "
sync_enabled = false
panel_enabled = true

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.UserID != "uid-1234" {
			t.Errorf("expected user_id uid-1234, got %s", config.Credentials.UserID)
		}
		if config.API.BaseURL != "http://localhost:9090/api/v3" {
			t.Errorf("unexpected base URL %s", config.API.BaseURL)
		}
		if config.Notes.SyncEnabled {
			t.Error("expected sync_enabled false")
		}
		if config.Database.MaxOpenConns != 20 {
			t.Errorf("expected max_open_conns 20, got %d", config.Database.MaxOpenConns)
		}
	})

	t.Run("Credentials Validate", func(t *testing.T) {
		creds := CredentialsConfig{UserID: "u", APIKey: "k"}
		if err := creds.Validate(); err != nil {
			t.Errorf("expected valid credentials, got %v", err)
		}

		err := CredentialsConfig{UserID: "u"}.Validate()
		if !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}
