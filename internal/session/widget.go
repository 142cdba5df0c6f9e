package session

import (
	"time"

	"github.com/llehouerou/tempest/internal/widget"
)

// updateWidget pushes either a full update or a progress-only update. Full
// updates fire when the current item changed or the (isPlaying, shuffle,
// repeat) triple differs from the last pushed one; otherwise, while playing,
// only the playhead is refreshed.
func (o *Orchestrator) updateWidget() {
	b := o.active
	if b == nil || b.ItemCount() == 0 {
		return
	}

	playing := b.IsPlaying()
	shuffle := b.Shuffle()
	repeat := b.RepeatMode()

	tripleChanged := !o.prevValid ||
		playing != o.prevPlaying ||
		shuffle != o.prevShuffle ||
		repeat != o.prevRepeat

	if o.nowPlayingChanged || tripleChanged {
		item, err := b.Item(b.CurrentIndex())
		if err != nil {
			return
		}
		o.widget.FullUpdate(widget.Update{
			Item:              widget.AnnotateLinks(item, o.cfg.FrontendURL),
			Index:             b.CurrentIndex(),
			IsPlaying:         playing,
			Shuffle:           shuffle,
			Repeat:            repeat,
			Position:          b.Position(),
			Duration:          b.Duration(),
			NowPlayingChanged: o.nowPlayingChanged,
		})
		o.prevPlaying = playing
		o.prevShuffle = shuffle
		o.prevRepeat = repeat
		o.prevValid = true
		o.nowPlayingChanged = false
		return
	}

	if playing {
		o.widget.ProgressUpdate(b.Position(), b.Duration())
	}
}

// startWidgetTimer begins the periodic progress refresh. Idempotent.
func (o *Orchestrator) startWidgetTimer() {
	if o.widgetStop != nil {
		return
	}
	stop := make(chan struct{})
	o.widgetStop = stop
	interval := o.cfg.WidgetInterval
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				o.do(o.updateWidget)
			case <-stop:
				return
			}
		}
	}()
}

// stopWidgetTimer halts the periodic refresh the instant playback stops.
func (o *Orchestrator) stopWidgetTimer() {
	if o.widgetStop != nil {
		close(o.widgetStop)
		o.widgetStop = nil
	}
}
