package session

import (
	"errors"
	"testing"
	"time"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/broadcast"
	"github.com/llehouerou/tempest/internal/queue"
)

func TestRestoreLoadsPersistedQueue(t *testing.T) {
	f := newFixture(t)
	items := testItems(3)
	f.store.Seed(items, 1, 30*time.Second)

	f.o.RegisterBackend(f.local)

	if got := f.local.ItemCount(); got != 3 {
		t.Fatalf("item count = %d, want 3", got)
	}
	if got := f.local.CurrentIndex(); got != 1 {
		t.Errorf("index = %d, want 1", got)
	}
	if got := f.local.Position(); got != 30*time.Second {
		t.Errorf("position = %v, want 30s", got)
	}
	if f.local.PlayWhenReady() {
		t.Error("restored queue must not start playing")
	}
	if f.local.PrepareCalls() == 0 {
		t.Error("restored queue not prepared")
	}
	if !hasSignal(f.bcast.Signals(), broadcast.SignalQueueRestored) {
		t.Error("restore signal not emitted")
	}
}

func TestRestoreClampsStalePlayhead(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(testItems(5), 999, -500*time.Millisecond)

	f.o.RegisterBackend(f.local)

	if got := f.local.CurrentIndex(); got != 4 {
		t.Errorf("index = %d, want clamped to 4", got)
	}
	if got := f.local.Position(); got != 0 {
		t.Errorf("position = %v, want clamped to 0", got)
	}
}

func TestRestoreResolvesStaleURIs(t *testing.T) {
	f := newFixture(t)
	f.resolver.rewrite = func(item queue.Item) queue.Item {
		item.URI = "https://fresh.example/" + item.ID
		return item
	}
	f.store.Seed(testItems(2), 0, 0)

	f.o.RegisterBackend(f.local)

	got, err := f.local.Item(0)
	if err != nil {
		t.Fatal(err)
	}
	if got.URI != "https://fresh.example/a" {
		t.Errorf("URI = %q, want the re-resolved URI", got.URI)
	}
}

func TestRestoreKeepsItemOnResolveError(t *testing.T) {
	f := newFixture(t)
	f.resolver.err = errors.New("token expired")
	items := testItems(2)
	f.store.Seed(items, 0, 0)

	f.o.RegisterBackend(f.local)

	// The stale URI is kept rather than dropping the item.
	if got := f.local.ItemCount(); got != 2 {
		t.Fatalf("item count = %d, want 2", got)
	}
	got, _ := f.local.Item(0)
	if got.URI != items[0].URI {
		t.Errorf("URI = %q, want the stored URI kept", got.URI)
	}
}

func TestRestoreSkippedOnStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.SnapshotErr = errors.New("disk gone")
	f.store.Seed(testItems(3), 0, 0)

	f.o.RegisterBackend(f.local)

	if got := f.local.ItemCount(); got != 0 {
		t.Errorf("item count = %d, want 0 when the store fails", got)
	}
	if hasSignal(f.bcast.Signals(), broadcast.SignalQueueRestored) {
		t.Error("restore signal emitted despite store failure")
	}
}

func TestRestorePlayheadErrorsDegradeToZero(t *testing.T) {
	f := newFixture(t)
	f.store.IndexErr = errors.New("corrupt row")
	f.store.PositionErr = errors.New("corrupt row")
	f.store.Seed(testItems(3), 2, time.Minute)

	f.o.RegisterBackend(f.local)

	if got := f.local.ItemCount(); got != 3 {
		t.Fatalf("item count = %d, want 3 despite playhead errors", got)
	}
	if got := f.local.CurrentIndex(); got != 0 {
		t.Errorf("index = %d, want default 0", got)
	}
	if got := f.local.Position(); got != 0 {
		t.Errorf("position = %v, want default 0", got)
	}
}

func TestRestoreSkippedWhenBackendHasQueue(t *testing.T) {
	f := newFixture(t)
	existing := []queue.Item{{ID: "live", URI: "https://music.example/live", Type: queue.MediaTypeMusic}}
	if err := f.local.SetQueue(existing, 0, 0); err != nil {
		t.Fatal(err)
	}
	f.store.Seed(testItems(3), 0, 0)

	f.o.RegisterBackend(f.local)

	if got := f.local.ItemCount(); got != 1 {
		t.Errorf("item count = %d, want the live queue untouched", got)
	}
}

func TestPersistedModesAppliedOnRegister(t *testing.T) {
	f := newFixture(t)
	f.store.SeedModes(true, backend.RepeatAll)

	f.o.RegisterBackend(f.local)

	if !f.local.Shuffle() {
		t.Error("persisted shuffle not applied")
	}
	if got := f.local.RepeatMode(); got != backend.RepeatAll {
		t.Errorf("repeat mode = %v, want repeat-all", got)
	}
}
