//go:build linux

// Package mpris publishes the session over the MPRIS D-Bus interface so
// desktop controls can drive playback.
package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/session"
)

// Adapter connects the session service to MPRIS over D-Bus.
type Adapter struct {
	service session.Service
	server  *server.Server
}

// New creates and starts an MPRIS adapter.
func New(service session.Service) (*Adapter, error) {
	a := &Adapter{service: service}
	a.server = server.NewServer("tempest", &rootAdapter{}, &playerAdapter{service: service})
	go func() {
		_ = a.server.Listen()
	}()
	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error             { return nil }
func (r *rootAdapter) Quit() error              { return nil }
func (r *rootAdapter) CanQuit() (bool, error)   { return false, nil }
func (r *rootAdapter) CanRaise() (bool, error)  { return false, nil }
func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }

func (r *rootAdapter) Identity() (string, error) {
	return "Tempest", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/mp3"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter plus the
// shuffle and loop-status extensions.
type playerAdapter struct {
	service session.Service
}

func (p *playerAdapter) Next() error     { return nil }
func (p *playerAdapter) Previous() error { return nil }

func (p *playerAdapter) Pause() error {
	return p.service.Pause()
}

func (p *playerAdapter) PlayPause() error {
	if p.service.Status().IsPlaying {
		return p.service.Pause()
	}
	return p.service.Play()
}

func (p *playerAdapter) Stop() error {
	return p.service.Pause()
}

func (p *playerAdapter) Play() error {
	return p.service.Play()
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	s := p.service.Status()
	return p.service.SeekTo(s.Position + time.Duration(offset)*time.Microsecond)
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.service.SeekTo(time.Duration(position) * time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	s := p.service.Status()
	switch {
	case s.ItemCount == 0:
		return types.PlaybackStatusStopped, nil
	case s.IsPlaying:
		return types.PlaybackStatusPlaying, nil
	default:
		return types.PlaybackStatusPaused, nil
	}
}

func (p *playerAdapter) Rate() (float64, error)    { return 1.0, nil }
func (p *playerAdapter) SetRate(_ float64) error   { return nil }
func (p *playerAdapter) Volume() (float64, error)  { return 1.0, nil }
func (p *playerAdapter) SetVolume(_ float64) error { return nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	s := p.service.Status()
	if s.ItemCount == 0 {
		return types.Metadata{}, nil
	}
	return types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(s.Item.ID)),
		Length:  types.Microseconds(s.Duration.Microseconds()),
		Title:   s.Item.Title,
		Artist:  []string{s.Item.Artist},
		Album:   s.Item.Album,
	}, nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Status().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) CanGoNext() (bool, error) {
	s := p.service.Status()
	return s.Index < s.ItemCount-1, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.service.Status().Index > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.service.Status().ItemCount > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error)   { return true, nil }
func (p *playerAdapter) CanSeek() (bool, error)    { return true, nil }
func (p *playerAdapter) CanControl() (bool, error) { return true, nil }

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	switch p.service.Status().Repeat {
	case backend.RepeatOne:
		return types.LoopStatusTrack, nil
	case backend.RepeatAll:
		return types.LoopStatusPlaylist, nil
	default:
		return types.LoopStatusNone, nil
	}
}

// SetLoopStatus cycles repeat until the requested mode is reached; the
// session only exposes the three-way cycle.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	var want backend.RepeatMode
	switch status {
	case types.LoopStatusTrack:
		want = backend.RepeatOne
	case types.LoopStatusPlaylist:
		want = backend.RepeatAll
	default:
		want = backend.RepeatOff
	}
	for i := 0; i < 3; i++ {
		if p.service.Status().Repeat == want {
			return nil
		}
		if err := p.service.Command(session.CommandRepeatOff); err != nil {
			return err
		}
	}
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.service.Status().Shuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	cmd := session.CommandShuffleOff
	if shuffle {
		cmd = session.CommandShuffleOn
	}
	return p.service.Command(cmd)
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
