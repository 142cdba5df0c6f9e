// Package local implements the local decode backend on top of beep.
// It plays mp3 and flac items from file paths or HTTP URLs and drives the
// shared speaker.
package local

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/queue"
)

const eventBufferSize = 64

var (
	speakerOnce       sync.Once
	speakerSampleRate beep.SampleRate
	speakerErr        error
)

// Backend is the local playback engine. All methods are safe for concurrent
// use; events are delivered on a buffered channel drained by the session.
type Backend struct {
	mu sync.Mutex

	items         []queue.Item
	index         int
	pendingSeek   time.Duration
	playWhenReady bool
	playing       bool
	released      bool
	state         backend.State

	shuffle      bool
	shuffleOrder []int
	repeat       backend.RepeatMode

	ctrl     *beep.Ctrl
	streamer beep.StreamSeekCloser
	format   beep.Format
	closer   io.Closer

	sessionID  int
	sessionSeq int

	client *http.Client
	events chan backend.Event
}

// New creates an idle local backend.
func New() *Backend {
	return &Backend{
		state:  backend.StateIdle,
		client: &http.Client{Timeout: 30 * time.Second},
		events: make(chan backend.Event, eventBufferSize),
	}
}

func (b *Backend) Kind() backend.Kind {
	return backend.Local
}

func (b *Backend) Events() <-chan backend.Event {
	return b.events
}

// emit delivers an event without ever blocking playback.
func (b *Backend) emit(e backend.Event) {
	select {
	case b.events <- e:
	default:
	}
}

func (b *Backend) SetQueue(items []queue.Item, startIndex int, startPosition time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return backend.ErrReleased
	}
	b.stopLocked()
	b.items = queue.CloneItems(items)
	if startIndex < 0 || startIndex >= len(b.items) {
		startIndex = 0
	}
	b.index = startIndex
	if startPosition < 0 {
		startPosition = 0
	}
	b.pendingSeek = startPosition
	b.shuffleOrder = nil
	b.state = backend.StateIdle
	b.emit(backend.TracksChanged{})
	return nil
}

// Prepare opens and decodes the current item. When play-when-ready is set,
// playback starts immediately.
func (b *Backend) Prepare() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return backend.ErrReleased
	}
	if len(b.items) == 0 {
		return nil
	}
	return b.prepareLocked()
}

func (b *Backend) prepareLocked() error {
	b.closeStreamLocked()

	item := b.items[b.index]
	b.state = backend.StateBuffering
	b.emit(backend.PlaybackStateChanged{State: backend.StateBuffering})

	src, err := b.open(item.URI)
	if err != nil {
		b.state = backend.StateIdle
		return fmt.Errorf("open %s: %w", item.URI, err)
	}

	streamer, format, err := decode(item.URI, src)
	if err != nil {
		src.Close()
		b.state = backend.StateIdle
		return fmt.Errorf("decode %s: %w", item.URI, err)
	}

	speakerOnce.Do(func() {
		speakerSampleRate = format.SampleRate
		speakerErr = speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10))
	})
	if speakerErr != nil {
		streamer.Close()
		src.Close()
		b.state = backend.StateIdle
		return fmt.Errorf("init speaker: %w", speakerErr)
	}

	b.streamer = streamer
	b.format = format
	b.closer = src

	if b.pendingSeek > 0 {
		if err := streamer.Seek(format.SampleRate.N(b.pendingSeek)); err == nil {
			b.pendingSeek = 0
		}
	}

	var play beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		play = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}
	b.ctrl = &beep.Ctrl{Streamer: play, Paused: !b.playWhenReady}

	b.sessionSeq++
	b.sessionID = b.sessionSeq
	b.emit(backend.AudioSessionChanged{SessionID: b.sessionID})

	index := b.index
	speaker.Play(beep.Seq(b.ctrl, beep.Callback(func() {
		// The callback runs inside the speaker loop; advancing re-enters
		// the speaker, so hop to a fresh goroutine.
		go b.onItemFinished(index)
	})))

	b.state = backend.StateReady
	b.emit(backend.PlaybackStateChanged{State: backend.StateReady})
	b.emit(backend.ItemTransition{Item: item.Clone(), Index: b.index, Reason: backend.TransitionPlaylistChanged})
	b.emit(backend.TracksChanged{})

	if b.playWhenReady && !b.playing {
		b.playing = true
		b.emit(backend.IsPlayingChanged{IsPlaying: true})
	}
	return nil
}

// onItemFinished advances to the next item per repeat mode and shuffle
// order, or ends playback at the queue tail.
func (b *Backend) onItemFinished(finished int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released || finished != b.index || len(b.items) == 0 {
		return
	}

	old := backend.PositionInfo{
		Item:     b.items[b.index].Clone(),
		Index:    b.index,
		Position: b.positionLocked(),
	}

	next, ok := b.nextIndexLocked()
	if !ok {
		b.playing = false
		b.state = backend.StateEnded
		b.emit(backend.IsPlayingChanged{IsPlaying: false})
		b.emit(backend.PlaybackStateChanged{State: backend.StateEnded})
		return
	}

	b.index = next
	b.pendingSeek = 0
	if err := b.prepareLocked(); err != nil {
		b.playing = false
		b.state = backend.StateIdle
		b.emit(backend.IsPlayingChanged{IsPlaying: false})
		return
	}
	b.emit(backend.PositionDiscontinuity{
		Reason: backend.DiscontinuityAutoTransition,
		Old:    old,
		New: backend.PositionInfo{
			Item:  b.items[b.index].Clone(),
			Index: b.index,
		},
	})
	b.emit(backend.ItemTransition{
		Item:   b.items[b.index].Clone(),
		Index:  b.index,
		Reason: backend.TransitionAuto,
	})
}

func (b *Backend) nextIndexLocked() (int, bool) {
	n := len(b.items)
	switch {
	case b.repeat == backend.RepeatOne:
		return b.index, true
	case b.shuffle && len(b.shuffleOrder) == n:
		pos := 0
		for i, v := range b.shuffleOrder {
			if v == b.index {
				pos = i
				break
			}
		}
		if pos+1 < n {
			return b.shuffleOrder[pos+1], true
		}
		if b.repeat == backend.RepeatAll {
			return b.shuffleOrder[0], true
		}
		return 0, false
	case b.index+1 < n:
		return b.index + 1, true
	case b.repeat == backend.RepeatAll:
		return 0, true
	default:
		return 0, false
	}
}

func (b *Backend) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return backend.ErrReleased
	}
	b.playWhenReady = true
	if b.ctrl == nil {
		if len(b.items) == 0 {
			return nil
		}
		return b.prepareLocked()
	}
	speaker.Lock()
	b.ctrl.Paused = false
	speaker.Unlock()
	if !b.playing {
		b.playing = true
		b.emit(backend.IsPlayingChanged{IsPlaying: true})
	}
	return nil
}

func (b *Backend) Pause() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return backend.ErrReleased
	}
	b.playWhenReady = false
	if b.ctrl != nil {
		speaker.Lock()
		b.ctrl.Paused = true
		speaker.Unlock()
	}
	if b.playing {
		b.playing = false
		b.emit(backend.IsPlayingChanged{IsPlaying: false})
	}
	return nil
}

func (b *Backend) SeekTo(position time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return backend.ErrReleased
	}
	if position < 0 {
		position = 0
	}
	if b.streamer == nil {
		b.pendingSeek = position
		return nil
	}
	speaker.Lock()
	err := b.streamer.Seek(b.format.SampleRate.N(position))
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

func (b *Backend) CurrentIndex() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index
}

func (b *Backend) Position() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.positionLocked()
}

func (b *Backend) positionLocked() time.Duration {
	if b.streamer == nil {
		return b.pendingSeek
	}
	speaker.Lock()
	pos := b.format.SampleRate.D(b.streamer.Position())
	speaker.Unlock()
	return pos
}

func (b *Backend) Duration() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return 0
	}
	speaker.Lock()
	d := b.format.SampleRate.D(b.streamer.Len())
	speaker.Unlock()
	return d
}

func (b *Backend) ItemCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *Backend) Item(index int) (queue.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.items) {
		return queue.Item{}, backend.ErrIndexOutOfRange
	}
	return b.items[index].Clone(), nil
}

func (b *Backend) Items() []queue.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return queue.CloneItems(b.items)
}

func (b *Backend) HasNext() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return false
	}
	_, ok := b.nextIndexLocked()
	return ok
}

func (b *Backend) IsPlaying() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.playing
}

func (b *Backend) PlayWhenReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.playWhenReady
}

func (b *Backend) SetPlayWhenReady(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playWhenReady = v
}

func (b *Backend) Shuffle() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shuffle
}

func (b *Backend) SetShuffle(enabled bool) {
	b.mu.Lock()
	changed := b.shuffle != enabled
	b.shuffle = enabled
	b.mu.Unlock()
	if changed {
		b.emit(backend.ShuffleChanged{Enabled: enabled})
	}
}

func (b *Backend) SetShuffleOrder(order []int, _ int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return backend.ErrReleased
	}
	if len(order) != len(b.items) {
		return backend.ErrIndexOutOfRange
	}
	b.shuffleOrder = append([]int(nil), order...)
	return nil
}

func (b *Backend) RepeatMode() backend.RepeatMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.repeat
}

func (b *Backend) SetRepeatMode(mode backend.RepeatMode) {
	b.mu.Lock()
	changed := b.repeat != mode
	b.repeat = mode
	b.mu.Unlock()
	if changed {
		b.emit(backend.RepeatChanged{Mode: mode})
	}
}

func (b *Backend) ReplaceItem(index int, item queue.Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return backend.ErrReleased
	}
	if index < 0 || index >= len(b.items) {
		return backend.ErrIndexOutOfRange
	}
	b.items[index] = item.Clone()
	return nil
}

func (b *Backend) AudioSessionID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessionID
}

func (b *Backend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	b.stopLocked()
}

func (b *Backend) stopLocked() {
	if b.streamer != nil {
		// Capture the playhead before Clear tears the streamer out of
		// the mixer, so a later Prepare resumes where we stopped.
		b.pendingSeek = b.positionLocked()
		speaker.Clear()
	}
	b.closeStreamLocked()
	if b.playing {
		b.playing = false
		b.emit(backend.IsPlayingChanged{IsPlaying: false})
	}
	b.state = backend.StateIdle
}

func (b *Backend) closeStreamLocked() {
	if b.streamer != nil {
		b.streamer.Close()
		b.streamer = nil
	}
	if b.closer != nil {
		b.closer.Close()
		b.closer = nil
	}
	b.ctrl = nil
}

func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	b.stopLocked()
	b.released = true
	b.items = nil
}

// open returns a readable source for a file path or HTTP(S) URL.
func (b *Backend) open(uri string) (io.ReadCloser, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		resp, err := b.client.Get(uri)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusBadRequest {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status: %s", resp.Status)
		}
		return resp.Body, nil
	}
	return os.Open(strings.TrimPrefix(uri, "file://"))
}

// decode picks a decoder from the URI extension, defaulting to mp3 for
// extension-less stream URLs. Seeking only works for sources that seek
// (files); HTTP streams play forward only.
func decode(uri string, src io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(path.Ext(uriPath(uri)))
	switch ext {
	case ".flac":
		return flac.Decode(src)
	default:
		return mp3.Decode(src)
	}
}

func uriPath(uri string) string {
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		return u.Path
	}
	return uri
}

var _ backend.Interface = (*Backend)(nil)
