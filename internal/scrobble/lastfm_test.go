package scrobble

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/llehouerou/tempest/internal/queue"
)

func TestAuthURLCarriesKeyAndToken(t *testing.T) {
	c := NewLastFM("key123", "secret")

	url := c.GetAuthURL("tok456")
	if !strings.HasPrefix(url, "https://www.last.fm/api/auth/") {
		t.Errorf("auth url = %q, want last.fm auth endpoint", url)
	}
	if !strings.Contains(url, "api_key=key123") || !strings.Contains(url, "token=tok456") {
		t.Errorf("auth url = %q, want api_key and token params", url)
	}
}

func TestUnauthenticatedSubmissionsRejected(t *testing.T) {
	c := NewLastFM("key", "secret")

	if c.IsAuthenticated() {
		t.Error("IsAuthenticated = true with no session key")
	}
	it := queue.Item{Artist: "Artist", Title: "Title"}
	if err := c.NowPlaying(it, time.Minute); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("NowPlaying err = %v, want ErrNotAuthenticated", err)
	}
	if err := c.Scrobble(it, time.Minute, time.Now()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Scrobble err = %v, want ErrNotAuthenticated", err)
	}
}

func TestUntaggedItemsSkipped(t *testing.T) {
	c := NewLastFM("key", "secret")
	c.SetSessionKey("session")
	if !c.IsAuthenticated() {
		t.Fatal("IsAuthenticated = false after SetSessionKey")
	}

	// No artist: nothing to submit, and no API call is made.
	if err := c.Scrobble(queue.Item{Title: "Only title"}, 0, time.Now()); err != nil {
		t.Errorf("Scrobble err = %v, want nil for untagged item", err)
	}
	if err := c.NowPlaying(queue.Item{}, 0); err != nil {
		t.Errorf("NowPlaying err = %v, want nil for untagged item", err)
	}
}
