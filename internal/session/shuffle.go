package session

import (
	"github.com/llehouerou/tempest/internal/backend"
)

// correctShuffleOrder runs once per cold start, on the first tracks-changed
// event. When shuffle is enabled it installs a uniformly random permutation
// with the currently playing index rotated into slot 0, so every item is
// reachable and the current item is not skipped. Naive engine shuffle
// initialization does not guarantee full-queue coverage from a cold start.
func (o *Orchestrator) correctShuffleOrder(b backend.Interface) {
	if !o.justStarted {
		return
	}
	o.justStarted = false

	if !b.Shuffle() {
		return
	}
	n := b.ItemCount()
	if n == 0 {
		return
	}

	order := o.rng.Perm(n)
	current := b.CurrentIndex()
	for i, v := range order {
		if v == current {
			order[0], order[i] = order[i], order[0]
			break
		}
	}
	seed := o.rng.Int63()
	if err := b.SetShuffleOrder(order, seed); err != nil {
		o.log.Warn("installing shuffle order failed", "err", err)
	}
}

// refreshNextItem re-resolves the upcoming item's URI after a tracks
// change so the next transition always plays a fresh URI. Wraps to item 0
// under repeat-all.
func (o *Orchestrator) refreshNextItem(b backend.Interface) {
	n := b.ItemCount()
	if n < 2 {
		return
	}
	next := b.CurrentIndex() + 1
	if next >= n {
		if b.RepeatMode() != backend.RepeatAll {
			return
		}
		next = 0
	}
	item, err := b.Item(next)
	if err != nil {
		return
	}
	resolved, err := o.resolver.Resolve(item)
	if err != nil {
		o.log.Debug("resolving next item failed", "item", item.ID, "err", err)
		return
	}
	if resolved.URI == item.URI {
		return
	}
	if err := b.ReplaceItem(next, resolved); err != nil {
		o.log.Warn("replacing next item failed", "err", err)
	}
}
