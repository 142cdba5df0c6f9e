package streammeta

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNoMetadata is returned when the stream response carries no usable
// metadata headers.
var ErrNoMetadata = errors.New("no stream metadata headers")

const defaultUserAgent = "tempest/1.0 (https://github.com/llehouerou/tempest)"

// streamTitleHeaders are checked in priority order.
var streamTitleHeaders = []string{
	"icy-name",
	"StreamTitle",
	"stream-title",
	"X-StreamTitle",
}

// Prober reads stream metadata from HTTP response headers. It is the
// fallback source for stations that advertise the current title in headers
// instead of embedded frames.
type Prober struct {
	client    *http.Client
	userAgent string
}

// NewProber creates a prober with the given per-request timeout (connect and
// read combined). A zero timeout defaults to 5 seconds.
func NewProber(timeout time.Duration, userAgent string) *Prober {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Prober{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Probe issues a HEAD request against the stream URL and, when that fails or
// is rejected, retries once as a ranged GET. The first populated header in
// priority order is parsed with the " - " split rule.
func (p *Prober) Probe(ctx context.Context, streamURL string) (Meta, error) {
	title, headErr := p.fetchTitle(ctx, streamURL, http.MethodHead)
	if headErr != nil {
		var getErr error
		title, getErr = p.fetchTitle(ctx, streamURL, http.MethodGet)
		if getErr != nil {
			return Meta{}, fmt.Errorf("probe %s: %w", streamURL, getErr)
		}
	}
	if title == "" {
		return Meta{}, ErrNoMetadata
	}
	artist, t := SplitStreamTitle(title)
	m := Meta{Artist: artist, Title: t}
	if m.IsZero() {
		return Meta{}, ErrNoMetadata
	}
	return m, nil
}

func (p *Prober) fetchTitle(ctx context.Context, streamURL, method string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, streamURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Icy-MetaData", "1")
	req.Header.Set("User-Agent", p.userAgent)
	if method == http.MethodGet {
		// Some servers reject HEAD; ask for minimal data instead.
		req.Header.Set("Range", "bytes=0-1")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	for _, name := range streamTitleHeaders {
		if v := resp.Header.Get(name); v != "" {
			return v, nil
		}
	}
	return "", nil
}
