package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.ProbeDelay() != 10*time.Second {
		t.Errorf("ProbeDelay = %v, want 10s", cfg.ProbeDelay())
	}
	if cfg.ProbeTimeout() != 5*time.Second {
		t.Errorf("ProbeTimeout = %v, want 5s", cfg.ProbeTimeout())
	}
	if cfg.WidgetInterval() != time.Second {
		t.Errorf("WidgetInterval = %v, want 1s", cfg.WidgetInterval())
	}
	if cfg.EqualizerDebounce() != 150*time.Millisecond {
		t.Errorf("EqualizerDebounce = %v, want 150ms", cfg.EqualizerDebounce())
	}
	if cfg.HasLastfmConfig() {
		t.Error("HasLastfmConfig = true with no keys")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := `
log_level = "debug"

[server]
url = "https://music.example.com/"
local_url = "http://music.lan:4533"
frontend_url = "https://music.example.com/app/"

[lastfm]
api_key = "key"
api_secret = "secret"

[radio]
probe_delay_seconds = 30
user_agent = "custom/1"

[widget]
interval_millis = 500
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Server.URL != "https://music.example.com" {
		t.Errorf("Server.URL = %q, trailing slash must be trimmed", cfg.Server.URL)
	}
	if cfg.Server.FrontendURL != "https://music.example.com/app" {
		t.Errorf("FrontendURL = %q, trailing slash must be trimmed", cfg.Server.FrontendURL)
	}
	if !cfg.HasLastfmConfig() {
		t.Error("HasLastfmConfig = false with both keys set")
	}
	if cfg.ProbeDelay() != 30*time.Second {
		t.Errorf("ProbeDelay = %v, want 30s", cfg.ProbeDelay())
	}
	if cfg.Radio.UserAgent != "custom/1" {
		t.Errorf("UserAgent = %q, want custom/1", cfg.Radio.UserAgent)
	}
	if cfg.WidgetInterval() != 500*time.Millisecond {
		t.Errorf("WidgetInterval = %v, want 500ms", cfg.WidgetInterval())
	}
	// Unset sections keep their defaults.
	if cfg.ProbeTimeout() != 5*time.Second {
		t.Errorf("ProbeTimeout = %v, want default 5s", cfg.ProbeTimeout())
	}
}
