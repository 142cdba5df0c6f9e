package session

import (
	"fmt"

	"github.com/llehouerou/tempest/internal/backend"
)

// transfer moves the session from the active backend to another one,
// preserving queue, index, position and play-when-ready exactly.
//
// The outgoing backend is stopped but never released; it may be the target
// of a future reverse transfer. Any incoming-side failure aborts the switch
// and the outgoing backend stays authoritative.
func (o *Orchestrator) transfer(to backend.Interface) error {
	from := o.active
	if from == nil {
		o.active = to
		return nil
	}
	if from == to {
		return nil
	}
	if from.ItemCount() == 0 {
		return nil
	}

	items := from.Items()
	index := from.CurrentIndex()
	position := from.Position()
	playWhenReady := from.PlayWhenReady()

	from.Stop()

	if err := to.SetQueue(items, index, position); err != nil {
		return fmt.Errorf("load queue into %s backend: %w", to.Kind(), err)
	}
	to.SetPlayWhenReady(playWhenReady)
	to.SetShuffle(from.Shuffle())
	to.SetRepeatMode(from.RepeatMode())
	if err := to.Prepare(); err != nil {
		return fmt.Errorf("prepare %s backend: %w", to.Kind(), err)
	}

	o.active = to
	o.cancelProbe()
	o.nowPlayingChanged = true
	o.updateWidget()
	o.log.Info("backend switched", "from", from.Kind(), "to", to.Kind())
	return nil
}
