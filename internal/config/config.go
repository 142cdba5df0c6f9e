// Package config loads the tempest configuration from TOML files.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `koanf:"log_level"`

	// Server is the streaming server base URL items resolve against.
	Server ServerConfig `koanf:"server"`

	// Lastfm enables scrobbling when both keys are set.
	Lastfm LastfmConfig `koanf:"lastfm"`

	// Radio tunes the stream-metadata header probe.
	Radio RadioConfig `koanf:"radio"`

	// Widget tunes the now-playing refresh.
	Widget WidgetConfig `koanf:"widget"`

	// Equalizer tunes the attach debounce.
	Equalizer EqualizerConfig `koanf:"equalizer"`
}

// ServerConfig holds the streaming server endpoints.
type ServerConfig struct {
	URL string `koanf:"url"` // e.g. "https://music.example.com"
	// LocalURL is preferred while on the home network.
	LocalURL string `koanf:"local_url"`
	// FrontendURL builds widget deep links; empty uses tempest://.
	FrontendURL string `koanf:"frontend_url"`
}

// LastfmConfig holds Last.fm scrobbling configuration.
type LastfmConfig struct {
	APIKey     string `koanf:"api_key"`
	APISecret  string `koanf:"api_secret"`
	SessionKey string `koanf:"session_key"`
}

// RadioConfig holds the header-probe settings.
type RadioConfig struct {
	ProbeDelaySeconds   int    `koanf:"probe_delay_seconds"`   // default: 10
	ProbeTimeoutSeconds int    `koanf:"probe_timeout_seconds"` // default: 5
	UserAgent           string `koanf:"user_agent"`
}

// WidgetConfig holds the progress-refresh settings.
type WidgetConfig struct {
	IntervalMillis int `koanf:"interval_millis"` // default: 1000
}

// EqualizerConfig holds the attach-debounce settings.
type EqualizerConfig struct {
	DebounceMillis int `koanf:"debounce_millis"` // default: 150
}

// Load reads config files in priority order (last wins) and applies
// defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		LogLevel: "info",
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Server.URL = strings.TrimSuffix(cfg.Server.URL, "/")
	cfg.Server.LocalURL = strings.TrimSuffix(cfg.Server.LocalURL, "/")
	cfg.Server.FrontendURL = strings.TrimSuffix(cfg.Server.FrontendURL, "/")

	if cfg.Radio.ProbeDelaySeconds <= 0 {
		cfg.Radio.ProbeDelaySeconds = 10
	}
	if cfg.Radio.ProbeTimeoutSeconds <= 0 {
		cfg.Radio.ProbeTimeoutSeconds = 5
	}
	if cfg.Widget.IntervalMillis <= 0 {
		cfg.Widget.IntervalMillis = 1000
	}
	if cfg.Equalizer.DebounceMillis <= 0 {
		cfg.Equalizer.DebounceMillis = 150
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tempest/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tempest", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

// HasLastfmConfig returns true if Last.fm scrobbling is configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

// ProbeDelay returns the header-probe delay as a duration.
func (c *Config) ProbeDelay() time.Duration {
	return time.Duration(c.Radio.ProbeDelaySeconds) * time.Second
}

// ProbeTimeout returns the header-probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Radio.ProbeTimeoutSeconds) * time.Second
}

// WidgetInterval returns the widget refresh period as a duration.
func (c *Config) WidgetInterval() time.Duration {
	return time.Duration(c.Widget.IntervalMillis) * time.Millisecond
}

// EqualizerDebounce returns the attach debounce as a duration.
func (c *Config) EqualizerDebounce() time.Duration {
	return time.Duration(c.Equalizer.DebounceMillis) * time.Millisecond
}
