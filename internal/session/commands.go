package session

import (
	"time"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/queue"
)

// Play resumes playback on the active backend.
func (o *Orchestrator) Play() error {
	var err error
	o.call(func() {
		if o.active == nil {
			err = ErrNoBackend
			return
		}
		err = o.active.Play()
	})
	return err
}

// Pause suspends playback on the active backend.
func (o *Orchestrator) Pause() error {
	var err error
	o.call(func() {
		if o.active == nil {
			err = ErrNoBackend
			return
		}
		err = o.active.Pause()
	})
	return err
}

// SeekTo moves the playhead within the current item.
func (o *Orchestrator) SeekTo(position time.Duration) error {
	var err error
	o.call(func() {
		if o.active == nil {
			err = ErrNoBackend
			return
		}
		err = o.active.SeekTo(position)
	})
	return err
}

// SetQueue replaces the whole queue. Items are normalized uniformly and the
// result is persisted.
func (o *Orchestrator) SetQueue(items []queue.Item, startIndex int, startPosition time.Duration) error {
	var err error
	o.call(func() {
		b := o.active
		if b == nil {
			err = ErrNoBackend
			return
		}
		normalized := normalizeItems(items)
		snap := queue.Snapshot{Items: normalized, Index: startIndex, Position: startPosition}
		snap.Clamp()
		if err = b.SetQueue(snap.Items, snap.Index, snap.Position); err != nil {
			return
		}
		if err = b.Prepare(); err != nil {
			return
		}
		o.nowPlayingChanged = true
		o.lastRadioArtist, o.lastRadioTitle = "", ""
		o.updateWidget()
		o.persistQueue(b)
	})
	return err
}

// AddItems appends normalized items to the current queue, preserving the
// playhead.
func (o *Orchestrator) AddItems(items []queue.Item) error {
	var err error
	o.call(func() {
		b := o.active
		if b == nil {
			err = ErrNoBackend
			return
		}
		combined := append(b.Items(), normalizeItems(items)...)
		index := b.CurrentIndex()
		position := b.Position()
		playWhenReady := b.PlayWhenReady()
		if err = b.SetQueue(combined, index, position); err != nil {
			return
		}
		b.SetPlayWhenReady(playWhenReady)
		o.persistQueue(b)
	})
	return err
}

// ClearQueue empties the active backend's queue and the persisted snapshot.
func (o *Orchestrator) ClearQueue() error {
	var err error
	o.call(func() {
		b := o.active
		if b == nil {
			err = ErrNoBackend
			return
		}
		b.Stop()
		if err = b.SetQueue(nil, 0, 0); err != nil {
			return
		}
		o.cancelProbe()
		o.lastRadioArtist, o.lastRadioTitle = "", ""
		if serr := o.store.SaveQueue(queue.Snapshot{}); serr != nil {
			o.log.Warn("clearing persisted queue failed", "err", serr)
		}
	})
	return err
}

// Command dispatches a custom session command by identifier. Any of the
// three repeat identifiers cycles repeat from the current mode.
func (o *Orchestrator) Command(id string) error {
	var err error
	o.call(func() {
		b := o.active
		if b == nil {
			err = ErrNoBackend
			return
		}
		switch id {
		case CommandShuffleOn:
			b.SetShuffle(true)
		case CommandShuffleOff:
			b.SetShuffle(false)
		case CommandRepeatOff, CommandRepeatOne, CommandRepeatAll:
			b.SetRepeatMode(b.RepeatMode().Cycle())
		default:
			err = ErrUnknownCommand
		}
	})
	return err
}

// Bind connects a client. Only the control-binder action registers a
// controls listener; ordinary session clients get no layout. Returns
// whether the listener was registered.
func (o *Orchestrator) Bind(action string, listener ControlsListener) bool {
	if action != ActionBind {
		return false
	}
	o.call(func() {
		o.controls = listener
		o.publishControls()
	})
	return true
}

// publishControls recomputes and pushes the two-button layout (shuffle
// icon, repeat icon) to the registered controls listener.
func (o *Orchestrator) publishControls() {
	if o.controls == nil {
		return
	}
	b := o.active
	if b == nil {
		return
	}
	shuffleCtl := Control{Command: CommandShuffleOn, Icon: "shuffle-off"}
	if b.Shuffle() {
		shuffleCtl = Control{Command: CommandShuffleOff, Icon: "shuffle-on"}
	}
	repeatIcon := "repeat-" + b.RepeatMode().String()
	o.controls([]Control{
		shuffleCtl,
		{Command: repeatIcon, Icon: repeatIcon},
	})
}

// persistQueue saves the full queue snapshot, best-effort.
func (o *Orchestrator) persistQueue(b backend.Interface) {
	snap := queue.Snapshot{
		Items:         b.Items(),
		Index:         b.CurrentIndex(),
		Position:      b.Position(),
		PlayWhenReady: b.PlayWhenReady(),
	}
	if err := o.store.SaveQueue(snap); err != nil {
		o.log.Warn("persisting queue failed", "err", err)
	}
}

// normalizeItems applies uniform ingestion normalization: artist fallback
// from the raw source-URI extra, canonical audio MIME type, request URI
// promoted to the play URI, generated id when missing.
func normalizeItems(items []queue.Item) []queue.Item {
	out := make([]queue.Item, len(items))
	for i, it := range items {
		out[i] = normalizeItem(it)
	}
	return out
}

func normalizeItem(it queue.Item) queue.Item {
	out := it.Clone()
	if out.ID == "" {
		out.ID = queue.NewID()
	}
	if out.Artist == "" {
		out.Artist = out.Extra(queue.ExtraURI)
	}
	out.MIMEType = queue.MIMETypeAudio
	if out.RequestURI != "" {
		out.URI = out.RequestURI
	}
	return out
}
