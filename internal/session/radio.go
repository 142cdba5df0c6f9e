package session

import (
	"context"
	"time"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/queue"
	"github.com/llehouerou/tempest/internal/streammeta"
)

// onStreamMetadata applies decoder-emitted frames for the current item.
// Embedded metadata always wins over the header probe.
func (o *Orchestrator) onStreamMetadata(b backend.Interface, ev backend.StreamMetadata) {
	item, err := b.Item(b.CurrentIndex())
	if err != nil || item.Type != queue.MediaTypeRadio {
		return
	}
	meta := streammeta.Extract(ev.Frames)
	if meta.IsZero() {
		return
	}
	o.applyRadioMeta(b, meta, true)
}

// applyRadioMeta merges a derived (artist, title) pair into the current
// radio item. Probe results are applied only when the item carries no
// embedded metadata and no previously-derived pair; consecutive identical
// pairs are deduplicated.
func (o *Orchestrator) applyRadioMeta(b backend.Interface, meta streammeta.Meta, embedded bool) {
	index := b.CurrentIndex()
	item, err := b.Item(index)
	if err != nil || item.Type != queue.MediaTypeRadio {
		return
	}

	if !embedded {
		if item.Artist != "" || item.HasExtra(queue.ExtraRadioArtist) || item.HasExtra(queue.ExtraRadioTitle) {
			return
		}
		if o.lastRadioArtist != "" || o.lastRadioTitle != "" {
			return
		}
	}

	if meta.Artist == o.lastRadioArtist && meta.Title == o.lastRadioTitle {
		return
	}
	o.lastRadioArtist = meta.Artist
	o.lastRadioTitle = meta.Title

	updated := item.Clone()
	// Preserve the station name once; the original title is the station.
	if !updated.HasExtra(queue.ExtraStationName) {
		name := item.Title
		if name == "" {
			name = item.Extra(queue.ExtraStationName)
		}
		if name != "" {
			updated = updated.WithExtra(queue.ExtraStationName, name)
		}
	}
	updated.Artist = meta.Artist
	if meta.Title != "" {
		updated.Title = meta.Title
	}
	updated = updated.WithExtra(queue.ExtraRadioArtist, meta.Artist)
	updated = updated.WithExtra(queue.ExtraRadioTitle, meta.Title)

	if err := b.ReplaceItem(index, updated); err != nil {
		o.log.Warn("replacing radio item failed", "err", err)
		return
	}
	o.nowPlayingChanged = true
	o.updateWidget()
}

// scheduleProbe arms the header probe after the given delay, cancelling any
// pending or in-flight probe. At most one probe is outstanding at a time.
func (o *Orchestrator) scheduleProbe(delay time.Duration) {
	o.cancelProbe()
	gen := o.probeGen
	o.probeTimer = time.AfterFunc(delay, func() {
		o.do(func() { o.runProbe(gen) })
	})
}

// cancelProbe invalidates any pending timer and any in-flight probe result.
func (o *Orchestrator) cancelProbe() {
	o.probeGen++
	if o.probeTimer != nil {
		o.probeTimer.Stop()
		o.probeTimer = nil
	}
}

// runProbe launches the blocking HTTP probe on a background goroutine. The
// result is posted back to the control loop.
func (o *Orchestrator) runProbe(gen int) {
	if gen != o.probeGen {
		return
	}
	b := o.active
	if b == nil || !b.IsPlaying() {
		return
	}
	item, err := b.Item(b.CurrentIndex())
	if err != nil || item.Type != queue.MediaTypeRadio {
		return
	}

	streamURL := item.URI
	timeout := o.cfg.RadioProbeTimeout
	prober := o.prober
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
		defer cancel()
		meta, err := prober.Probe(ctx, streamURL)
		o.do(func() { o.finishProbe(gen, meta, err) })
	}()
}

// finishProbe applies a probe result on the control loop and re-arms the
// fixed-delay schedule while the radio item keeps playing.
func (o *Orchestrator) finishProbe(gen int, meta streammeta.Meta, err error) {
	if gen != o.probeGen {
		return
	}
	b := o.active
	if b == nil {
		return
	}
	if err != nil {
		o.log.Debug("radio header probe failed", "err", err)
	} else {
		o.applyRadioMeta(b, meta, false)
	}
	if b.IsPlaying() {
		o.probeTimer = time.AfterFunc(o.cfg.RadioProbeDelay, func() {
			o.do(func() { o.runProbe(gen) })
		})
	}
}
