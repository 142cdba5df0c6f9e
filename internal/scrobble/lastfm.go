package scrobble

import (
	"errors"
	"fmt"
	"time"

	"github.com/shkh/lastfm-go/lastfm"

	"github.com/llehouerou/tempest/internal/queue"
)

// ErrNotAuthenticated is returned when an operation requires a session key.
var ErrNotAuthenticated = errors.New("not authenticated")

// LastFM submits plays to Last.fm.
type LastFM struct {
	api        *lastfm.Api
	apiKey     string
	sessionKey string
}

// NewLastFM creates a Last.fm scrobbler with the given API credentials.
func NewLastFM(apiKey, apiSecret string) *LastFM {
	return &LastFM{
		api:    lastfm.New(apiKey, apiSecret),
		apiKey: apiKey,
	}
}

// SetSessionKey sets the authenticated session key.
func (c *LastFM) SetSessionKey(key string) {
	c.sessionKey = key
	c.api.SetSession(key)
}

// IsAuthenticated returns true if a session key is set.
func (c *LastFM) IsAuthenticated() bool {
	return c.sessionKey != ""
}

// GetToken requests an authentication token from Last.fm.
func (c *LastFM) GetToken() (string, error) {
	token, err := c.api.GetToken()
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return token, nil
}

// GetAuthURL returns the URL for user authorization (desktop auth flow).
func (c *LastFM) GetAuthURL(token string) string {
	return fmt.Sprintf("https://www.last.fm/api/auth/?api_key=%s&token=%s", c.apiKey, token)
}

// GetSession exchanges an authorized token for a session key.
func (c *LastFM) GetSession(token string) (string, error) {
	if err := c.api.LoginWithToken(token); err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	c.sessionKey = c.api.GetSessionKey()
	return c.sessionKey, nil
}

// NowPlaying sends a "now playing" notification to Last.fm.
func (c *LastFM) NowPlaying(item queue.Item, duration time.Duration) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if item.Artist == "" || item.Title == "" {
		return nil
	}

	params := lastfm.P{
		"artist": item.Artist,
		"track":  item.Title,
	}
	if item.Album != "" {
		params["album"] = item.Album
	}
	if duration > 0 {
		params["duration"] = int(duration.Seconds())
	}

	if _, err := c.api.Track.UpdateNowPlaying(params); err != nil {
		return fmt.Errorf("update now playing: %w", err)
	}
	return nil
}

// Scrobble submits a completed play to Last.fm.
func (c *LastFM) Scrobble(item queue.Item, duration time.Duration, playedAt time.Time) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if item.Artist == "" || item.Title == "" {
		return nil
	}

	params := lastfm.P{
		"artist":    item.Artist,
		"track":     item.Title,
		"timestamp": playedAt.Unix(),
	}
	if item.Album != "" {
		params["album"] = item.Album
	}
	if duration > 0 {
		params["duration"] = int(duration.Seconds())
	}

	if _, err := c.api.Track.Scrobble(params); err != nil {
		return fmt.Errorf("scrobble: %w", err)
	}
	return nil
}

var _ Scrobbler = (*LastFM)(nil)
