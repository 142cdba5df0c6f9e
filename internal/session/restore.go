package session

import (
	"github.com/llehouerou/tempest/internal/broadcast"
	"github.com/llehouerou/tempest/internal/queue"
)

// restoreQueue loads the persisted queue into the active backend. Runs once
// at session start, only when the backend's queue is empty. Store failures
// degrade to defaults and never prevent startup.
func (o *Orchestrator) restoreQueue() {
	b := o.active
	if b == nil || b.ItemCount() > 0 {
		return
	}

	items, err := o.store.Snapshot()
	if err != nil {
		o.log.Warn("queue restore failed", "err", err)
		return
	}
	if len(items) == 0 {
		return
	}

	index, err := o.store.LastIndex()
	if err != nil {
		o.log.Debug("stored index unreadable, defaulting to 0", "err", err)
		index = 0
	}
	position, err := o.store.LastPosition()
	if err != nil {
		o.log.Debug("stored position unreadable, defaulting to 0", "err", err)
		position = 0
	}

	// URIs may be stale across restarts; re-resolve every item at load.
	for i := range items {
		resolved, err := o.resolver.Resolve(items[i])
		if err != nil {
			o.log.Debug("resolve at restore failed", "item", items[i].ID, "err", err)
			continue
		}
		items[i] = resolved
	}

	snap := queue.Snapshot{Items: items, Index: index, Position: position}
	snap.Clamp()

	if err := b.SetQueue(snap.Items, snap.Index, snap.Position); err != nil {
		o.log.Warn("loading restored queue failed", "err", err)
		return
	}
	b.SetPlayWhenReady(false)
	if err := b.Prepare(); err != nil {
		o.log.Warn("preparing restored queue failed", "err", err)
		return
	}

	o.nowPlayingChanged = true
	o.updateWidget()
	o.bcast.Emit(broadcast.SignalQueueRestored)
	o.log.Info("queue restored", "items", len(snap.Items), "index", snap.Index)
}
