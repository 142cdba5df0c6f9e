package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/llehouerou/tempest/internal/backend/local"
	"github.com/llehouerou/tempest/internal/broadcast"
	"github.com/llehouerou/tempest/internal/config"
	"github.com/llehouerou/tempest/internal/mpris"
	"github.com/llehouerou/tempest/internal/netmon"
	"github.com/llehouerou/tempest/internal/queue"
	"github.com/llehouerou/tempest/internal/scrobble"
	"github.com/llehouerou/tempest/internal/session"
	"github.com/llehouerou/tempest/internal/state"
	"github.com/llehouerou/tempest/internal/streammeta"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tempest: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	lastfmAuth := flag.Bool("lastfm-auth", false,
		"run the Last.fm desktop authorization flow and print the session key")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if *lastfmAuth {
		return runLastfmAuth(cfg)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	store, err := state.Open()
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer store.Close()

	var scrobbler scrobble.Scrobbler = scrobble.Nop{}
	if cfg.HasLastfmConfig() {
		lfm := scrobble.NewLastFM(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
		if cfg.Lastfm.SessionKey != "" {
			lfm.SetSessionKey(cfg.Lastfm.SessionKey)
		}
		scrobbler = lfm
	}

	emitter, err := broadcast.New()
	if err != nil {
		logger.Warn("broadcast emitter unavailable", "err", err)
		emitter = broadcast.Nop{}
	}

	monitor := netmon.Nop{}

	svc := session.New(session.Options{
		Config: session.Config{
			WidgetInterval:    cfg.WidgetInterval(),
			RadioProbeDelay:   cfg.ProbeDelay(),
			RadioProbeTimeout: cfg.ProbeTimeout(),
			EqualizerDebounce: cfg.EqualizerDebounce(),
			ProbeUserAgent:    cfg.Radio.UserAgent,
			FrontendURL:       cfg.Server.FrontendURL,
		},
		Store:     store,
		Scrobbler: scrobbler,
		Network:   monitor,
		Resolver:  newServerResolver(cfg.Server, monitor),
		Prober:    streammeta.NewProber(cfg.ProbeTimeout(), cfg.Radio.UserAgent),
		Broadcast: emitter,
		Logger:    logger,
	})
	defer svc.Close()

	svc.RegisterBackend(local.New())

	adapter, err := mpris.New(svc)
	if err != nil {
		logger.Warn("mpris adapter unavailable", "err", err)
	} else {
		defer adapter.Close()
	}

	logger.Info("tempest session started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
	return nil
}

// runLastfmAuth walks the Last.fm desktop authorization flow: request a
// token, have the user approve it in a browser, then exchange it for the
// session key to put in config.toml.
func runLastfmAuth(cfg *config.Config) error {
	if !cfg.HasLastfmConfig() {
		return fmt.Errorf("lastfm api_key and api_secret must be set in the config first")
	}
	lfm := scrobble.NewLastFM(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)

	token, err := lfm.GetToken()
	if err != nil {
		return fmt.Errorf("request token: %w", err)
	}
	fmt.Printf("Authorize tempest in your browser:\n\n  %s\n\nPress Enter when done.\n", lfm.GetAuthURL(token))
	if _, err := bufio.NewReader(os.Stdin).ReadString('\n'); err != nil {
		return err
	}

	key, err := lfm.GetSession(token)
	if err != nil {
		return fmt.Errorf("exchange token: %w", err)
	}
	fmt.Printf("Add to config.toml:\n\n[lastfm]\nsession_key = %q\n", key)
	return nil
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newServerResolver rewrites item URIs between the public and local server
// base URLs depending on the current transport class.
func newServerResolver(server config.ServerConfig, monitor netmon.Monitor) session.Resolver {
	return session.ResolverFunc(func(item queue.Item) (queue.Item, error) {
		if server.URL == "" || server.LocalURL == "" {
			return item, nil
		}
		out := item.Clone()
		if monitor.Current() == netmon.TransportWifi {
			out.URI = strings.Replace(out.URI, server.URL, server.LocalURL, 1)
		} else {
			out.URI = strings.Replace(out.URI, server.LocalURL, server.URL, 1)
		}
		return out, nil
	})
}
