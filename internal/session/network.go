package session

import (
	"github.com/llehouerou/tempest/internal/netmon"
)

// onTransportChange reacts to a network transport-class change. Only a
// class that differs from the previously observed one triggers a remap, and
// only the current item is remapped; the rest of the queue keeps its URIs
// until it is re-resolved at the next restore.
func (o *Orchestrator) onTransportChange(t netmon.TransportClass) {
	if o.transportKnown && t == o.lastTransport {
		return
	}
	first := !o.transportKnown
	o.lastTransport = t
	o.transportKnown = true
	if first {
		// The initial callback only records the baseline class.
		return
	}

	b := o.active
	if b == nil || b.ItemCount() == 0 {
		return
	}
	index := b.CurrentIndex()
	item, err := b.Item(index)
	if err != nil {
		return
	}
	resolved, err := o.resolver.Resolve(item)
	if err != nil {
		o.log.Warn("uri remap failed", "item", item.ID, "err", err)
		return
	}
	if resolved.URI == item.URI {
		return
	}

	position := b.Position()
	if err := b.ReplaceItem(index, resolved); err != nil {
		o.log.Warn("replacing remapped item failed", "err", err)
		return
	}
	if err := b.SeekTo(position); err != nil {
		o.log.Warn("restoring position after remap failed", "err", err)
	}
	o.log.Info("current item remapped", "transport", t, "item", item.ID)
}
