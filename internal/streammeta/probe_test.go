package streammeta

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProbeHeadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		if r.Header.Get("Icy-MetaData") != "1" {
			t.Error("Icy-MetaData header not sent")
		}
		w.Header().Set("icy-name", "Daft Punk - Around the World")
	}))
	defer srv.Close()

	p := NewProber(time.Second, "")
	meta, err := p.Probe(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if meta.Artist != "Daft Punk" || meta.Title != "Around the World" {
		t.Errorf("meta = %+v, want Daft Punk / Around the World", meta)
	}
}

func TestProbeFallsBackToRangedGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Range") != "bytes=0-1" {
			t.Errorf("Range = %q, want bytes=0-1", r.Header.Get("Range"))
		}
		w.Header().Set("StreamTitle", "A - B")
	}))
	defer srv.Close()

	p := NewProber(time.Second, "")
	meta, err := p.Probe(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if meta.Artist != "A" || meta.Title != "B" {
		t.Errorf("meta = %+v, want A / B", meta)
	}
}

func TestProbeHeaderPriority(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StreamTitle", "Low - Priority")
		w.Header().Set("icy-name", "High - Priority")
	}))
	defer srv.Close()

	p := NewProber(time.Second, "")
	meta, err := p.Probe(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if meta.Artist != "High" {
		t.Errorf("artist = %q, icy-name must win", meta.Artist)
	}
}

func TestProbeNoHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	p := NewProber(time.Second, "")
	if _, err := p.Probe(context.Background(), srv.URL); !errors.Is(err, ErrNoMetadata) {
		t.Errorf("Probe = %v, want ErrNoMetadata", err)
	}
}

func TestProbeTitleOnlyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("icy-name", "Morning Show")
	}))
	defer srv.Close()

	p := NewProber(time.Second, "")
	meta, err := p.Probe(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if meta.Artist != "" || meta.Title != "Morning Show" {
		t.Errorf("meta = %+v, want title-only", meta)
	}
}

func TestProbeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProber(time.Second, "")
	if _, err := p.Probe(context.Background(), srv.URL); err == nil {
		t.Error("Probe succeeded against a failing server")
	}
}

func TestProbeCustomUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "radio-probe/2" {
			t.Errorf("User-Agent = %q, want radio-probe/2", got)
		}
		w.Header().Set("icy-name", "A - B")
	}))
	defer srv.Close()

	p := NewProber(time.Second, "radio-probe/2")
	if _, err := p.Probe(context.Background(), srv.URL); err != nil {
		t.Fatalf("Probe: %v", err)
	}
}
