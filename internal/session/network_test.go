package session

import (
	"testing"
	"time"

	"github.com/llehouerou/tempest/internal/netmon"
	"github.com/llehouerou/tempest/internal/queue"
)

// remap points the current item at a host derived from the transport class.
func remapResolver(f *fixture) {
	f.resolver.rewrite = func(item queue.Item) queue.Item {
		switch f.network.Current() {
		case netmon.TransportWifi:
			item.URI = "https://lan.example/stream/" + item.ID
		default:
			item.URI = "https://wan.example/stream/" + item.ID
		}
		return item
	}
}

func TestFirstTransportCallbackRecordsBaselineOnly(t *testing.T) {
	f := newFixture(t)
	remapResolver(f)
	f.o.RegisterBackend(f.local)
	if err := f.o.SetQueue(testItems(2), 0, 0); err != nil {
		t.Fatalf("SetQueue: %v", err)
	}

	f.network.Fire(netmon.TransportWifi)
	f.sync()

	if got := f.local.ReplaceCount(); got != 0 {
		t.Errorf("replace count = %d, want 0 on the baseline callback", got)
	}
}

func TestTransportChangeRemapsCurrentItem(t *testing.T) {
	f := newFixture(t)
	remapResolver(f)
	f.o.RegisterBackend(f.local)
	if err := f.o.SetQueue(testItems(3), 1, 0); err != nil {
		t.Fatalf("SetQueue: %v", err)
	}
	f.local.SetPosition(42 * time.Second)

	f.network.Fire(netmon.TransportWifi)
	f.network.Fire(netmon.TransportCellular)
	f.sync()

	item, ok := f.local.ReplacedItem(1)
	if !ok {
		t.Fatal("current item not remapped")
	}
	if item.URI != "https://wan.example/stream/b" {
		t.Errorf("URI = %q, want the cellular mapping", item.URI)
	}
	seeks := f.local.SeekCalls()
	if len(seeks) != 1 || seeks[0] != 42*time.Second {
		t.Errorf("seeks = %v, want a single restore to 42s", seeks)
	}
	if got := f.local.ReplaceCount(); got != 1 {
		t.Errorf("replace count = %d, only the current item may be remapped", got)
	}
}

func TestTransportChangeNoopWhenURIUnchanged(t *testing.T) {
	f := newFixture(t)
	f.o.RegisterBackend(f.local)
	if err := f.o.SetQueue(testItems(2), 0, 0); err != nil {
		t.Fatalf("SetQueue: %v", err)
	}

	// Identity resolver: the mapped URI equals the current one.
	f.network.Fire(netmon.TransportWifi)
	f.network.Fire(netmon.TransportCellular)
	f.sync()

	if got := f.local.ReplaceCount(); got != 0 {
		t.Errorf("replace count = %d, want 0 when the URI is unchanged", got)
	}
	if got := len(f.local.SeekCalls()); got != 0 {
		t.Errorf("seek calls = %d, want 0 when the URI is unchanged", got)
	}
}

func TestSameTransportClassIgnored(t *testing.T) {
	f := newFixture(t)
	remapResolver(f)
	f.o.RegisterBackend(f.local)
	if err := f.o.SetQueue(testItems(2), 0, 0); err != nil {
		t.Fatalf("SetQueue: %v", err)
	}

	f.network.Fire(netmon.TransportCellular)
	f.network.Fire(netmon.TransportWifi)
	f.sync()
	replaces := f.local.ReplaceCount()

	f.network.Fire(netmon.TransportWifi)
	f.sync()

	if got := f.local.ReplaceCount(); got != replaces {
		t.Error("repeated class triggered another remap")
	}
}

func TestTransportChangeWithEmptyQueueIsNoop(t *testing.T) {
	f := newFixture(t)
	remapResolver(f)
	f.o.RegisterBackend(f.local)

	f.network.Fire(netmon.TransportWifi)
	f.network.Fire(netmon.TransportCellular)
	f.sync()

	if f.resolver.calls != 0 {
		t.Errorf("resolver called %d times with an empty queue", f.resolver.calls)
	}
}
