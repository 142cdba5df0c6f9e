package session

import (
	"time"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/queue"
)

// handleEvent reacts to one backend event on the control loop. Events from
// a non-active backend are ignored; only the active backend drives session
// state.
func (o *Orchestrator) handleEvent(b backend.Interface, e backend.Event) {
	if b != o.active {
		return
	}

	switch ev := e.(type) {
	case backend.ItemTransition:
		o.onItemTransition(b, ev)
	case backend.TracksChanged:
		o.onTracksChanged(b)
	case backend.IsPlayingChanged:
		o.onIsPlayingChanged(b, ev.IsPlaying)
	case backend.PlaybackStateChanged:
		o.onPlaybackStateChanged(b, ev.State)
	case backend.PositionDiscontinuity:
		o.onPositionDiscontinuity(b, ev)
	case backend.ShuffleChanged:
		o.saveModes(b)
		o.publishControls()
		o.updateWidget()
	case backend.RepeatChanged:
		o.saveModes(b)
		o.publishControls()
		o.updateWidget()
	case backend.AudioSessionChanged:
		o.onAudioSessionChanged(ev.SessionID)
	case backend.StreamMetadata:
		o.onStreamMetadata(b, ev)
	}
}

func (o *Orchestrator) onItemTransition(b backend.Interface, ev backend.ItemTransition) {
	o.nowPlayingChanged = true
	o.lastRadioArtist, o.lastRadioTitle = "", ""
	o.cancelProbe()

	if ev.Reason == backend.TransitionSeek || ev.Reason == backend.TransitionAuto {
		if ev.Item.ID != "" {
			if err := o.store.SetLastPlayed(ev.Item.ID, time.Now()); err != nil {
				o.log.Warn("recording last-played failed", "err", err)
			}
		}
	}

	if ev.Item.Type == queue.MediaTypeRadio && b.IsPlaying() {
		o.scheduleProbe(0)
	}

	o.updateWidget()
}

func (o *Orchestrator) onTracksChanged(b backend.Interface) {
	o.correctShuffleOrder(b)
	o.refreshNextItem(b)

	if item, err := b.Item(b.CurrentIndex()); err == nil && item.Type == queue.MediaTypeMusic {
		o.notifyNowPlaying(item, b.Duration())
	}
}

func (o *Orchestrator) onIsPlayingChanged(b backend.Interface, playing bool) {
	if playing {
		o.startWidgetTimer()
		if item, err := b.Item(b.CurrentIndex()); err == nil {
			if item.Type == queue.MediaTypeMusic {
				o.notifyNowPlaying(item, b.Duration())
			}
			if item.Type == queue.MediaTypeRadio {
				o.scheduleProbe(0)
			}
		}
	} else {
		o.stopWidgetTimer()
		o.cancelProbe()
		if item, err := b.Item(b.CurrentIndex()); err == nil && item.ID != "" {
			if err := o.store.SetPaused(item.ID, time.Now(), b.Position()); err != nil {
				o.log.Warn("recording pause mark failed", "err", err)
			}
		}
	}
	o.updateWidget()
}

func (o *Orchestrator) onPlaybackStateChanged(b backend.Interface, s backend.State) {
	if s != backend.StateEnded {
		return
	}
	// Queue exhausted: the final item in playback order completed with no
	// next item to advance to. The engine answers "next" so shuffle order
	// and repeat mode are honored.
	item, err := b.Item(b.CurrentIndex())
	if err != nil {
		return
	}
	if !b.HasNext() && item.Type == queue.MediaTypeMusic {
		o.completePlay(item, b.Duration())
	}
	o.stopWidgetTimer()
	o.cancelProbe()
	o.updateWidget()
}

func (o *Orchestrator) onPositionDiscontinuity(b backend.Interface, ev backend.PositionDiscontinuity) {
	if ev.Reason != backend.DiscontinuityAutoTransition {
		return
	}
	if ev.Old.Item.Type == queue.MediaTypeMusic {
		o.completePlay(ev.Old.Item, b.Duration())
	}
	if ev.New.Item.Type == queue.MediaTypeMusic && ev.New.Item.ID != "" {
		if err := o.store.SetLastPlayed(ev.New.Item.ID, time.Now()); err != nil {
			o.log.Warn("recording last-played failed", "err", err)
		}
	}
}

// completePlay records a finished play: scrobble as completed plus a local
// chronology entry.
func (o *Orchestrator) completePlay(item queue.Item, duration time.Duration) {
	now := time.Now()
	if err := o.store.SaveChronology(item, now); err != nil {
		o.log.Warn("recording chronology failed", "err", err)
	}
	sc := o.scrobbler
	go func() {
		if err := sc.Scrobble(item, duration, now); err != nil {
			o.log.Debug("scrobble failed", "item", item.ID, "err", err)
		}
	}()
}

// notifyNowPlaying emits a non-completed now-playing scrobble off the loop.
func (o *Orchestrator) notifyNowPlaying(item queue.Item, duration time.Duration) {
	sc := o.scrobbler
	go func() {
		if err := sc.NowPlaying(item, duration); err != nil {
			o.log.Debug("now-playing update failed", "item", item.ID, "err", err)
		}
	}()
}

func (o *Orchestrator) saveModes(b backend.Interface) {
	if err := o.store.SaveModes(b.Shuffle(), b.RepeatMode()); err != nil {
		o.log.Warn("persisting modes failed", "err", err)
	}
}
