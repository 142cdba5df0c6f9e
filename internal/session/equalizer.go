package session

import (
	"time"

	"github.com/llehouerou/tempest/internal/broadcast"
)

// onAudioSessionChanged debounces equalizer attachment. Session ids 0 and
// -1 are placeholders and never attached. A newer session id cancels the
// pending attach; superseded requests are dropped, never queued.
func (o *Orchestrator) onAudioSessionChanged(sessionID int) {
	if sessionID == 0 || sessionID == -1 {
		return
	}
	o.cancelEqualizerAttach()
	gen := o.eqGen
	o.eqTimer = time.AfterFunc(o.cfg.EqualizerDebounce, func() {
		o.do(func() { o.attachEqualizer(gen, sessionID) })
	})
}

func (o *Orchestrator) cancelEqualizerAttach() {
	o.eqGen++
	if o.eqTimer != nil {
		o.eqTimer.Stop()
		o.eqTimer = nil
	}
}

// attachEqualizer runs the potentially slow attach off the loop, posting
// the result back for settings restore and broadcast.
func (o *Orchestrator) attachEqualizer(gen, sessionID int) {
	if gen != o.eqGen {
		return
	}
	eq := o.eq
	go func() {
		err := eq.Attach(sessionID)
		o.do(func() { o.finishEqualizerAttach(gen, sessionID, err) })
	}()
}

// finishEqualizerAttach restores persisted settings after a successful
// attach and notifies collaborators. Failures leave the equalizer disabled;
// there is no retry beyond the debounce.
func (o *Orchestrator) finishEqualizerAttach(gen, sessionID int, attachErr error) {
	if gen != o.eqGen {
		return
	}
	if attachErr != nil {
		o.log.Warn("equalizer attach failed", "session", sessionID, "err", attachErr)
		return
	}

	enabled, levels, err := o.store.EqualizerSettings(o.eq.BandCount())
	if err != nil {
		o.log.Warn("loading equalizer settings failed", "err", err)
		return
	}
	if err := o.eq.SetEnabled(enabled); err != nil {
		o.log.Warn("enabling equalizer failed", "err", err)
		return
	}
	for band, level := range levels {
		if err := o.eq.SetBandLevel(band, level); err != nil {
			o.log.Warn("setting equalizer band failed", "band", band, "err", err)
		}
	}
	o.bcast.Emit(broadcast.SignalEqualizerUpdated)
}
