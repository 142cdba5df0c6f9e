package session

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/broadcast"
	"github.com/llehouerou/tempest/internal/equalizer"
	"github.com/llehouerou/tempest/internal/netmon"
	"github.com/llehouerou/tempest/internal/queue"
	"github.com/llehouerou/tempest/internal/scrobble"
	"github.com/llehouerou/tempest/internal/state"
	"github.com/llehouerou/tempest/internal/streammeta"
	"github.com/llehouerou/tempest/internal/widget"
)

// fakeProber returns canned probe results.
type fakeProber struct {
	meta streammeta.Meta
	err  error
}

func (f *fakeProber) Probe(_ context.Context, _ string) (streammeta.Meta, error) {
	return f.meta, f.err
}

// fixture bundles an orchestrator with all its mock collaborators.
type fixture struct {
	o        *Orchestrator
	local    *backend.Mock
	remote   *backend.Mock
	store    *state.MemoryStore
	scrob    *scrobble.Mock
	widget   *widget.Mock
	eq       *equalizer.Mock
	network  *netmon.Mock
	bcast    *broadcast.Mock
	prober   *fakeProber
	resolver *recordingResolver
}

// recordingResolver applies a rewrite function and counts calls.
type recordingResolver struct {
	rewrite func(queue.Item) queue.Item
	err     error
	calls   int
}

func (r *recordingResolver) Resolve(item queue.Item) (queue.Item, error) {
	r.calls++
	if r.err != nil {
		return queue.Item{}, r.err
	}
	if r.rewrite == nil {
		return item, nil
	}
	return r.rewrite(item), nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		local:    backend.NewMock(backend.Local),
		remote:   backend.NewMock(backend.Remote),
		store:    state.NewMemoryStore(),
		scrob:    scrobble.NewMock(),
		widget:   widget.NewMock(),
		eq:       equalizer.NewMock(5),
		network:  netmon.NewMock(netmon.TransportWifi),
		bcast:    broadcast.NewMock(),
		prober:   &fakeProber{},
		resolver: &recordingResolver{},
	}
	f.o = New(Options{
		Config: Config{
			WidgetInterval:    10 * time.Millisecond,
			RadioProbeDelay:   20 * time.Millisecond,
			RadioProbeTimeout: time.Second,
			EqualizerDebounce: 10 * time.Millisecond,
		},
		Store:     f.store,
		Scrobbler: f.scrob,
		Widget:    f.widget,
		Equalizer: f.eq,
		Network:   f.network,
		Resolver:  f.resolver,
		Prober:    f.prober,
		Broadcast: f.bcast,
		Rand:      rand.New(rand.NewSource(1)),
	})
	t.Cleanup(func() { f.o.Close() })
	return f
}

// event injects a backend event synchronously on the control loop, bypassing
// the pump for determinism.
func (f *fixture) event(b backend.Interface, e backend.Event) {
	f.o.call(func() { f.o.handleEvent(b, e) })
}

// sync waits until all previously posted closures have run.
func (f *fixture) sync() {
	f.o.call(func() {})
}

func testItems(n int) []queue.Item {
	items := make([]queue.Item, n)
	for i := range items {
		items[i] = queue.Item{
			ID:    string(rune('a' + i)),
			URI:   "https://music.example/stream/" + string(rune('a'+i)),
			Title: "Track " + string(rune('A'+i)),
			Type:  queue.MediaTypeMusic,
		}
	}
	return items
}

func radioItem() queue.Item {
	return queue.Item{
		ID:    "radio-1",
		URI:   "http://radio.example/stream",
		Title: "Example FM",
		Type:  queue.MediaTypeRadio,
	}
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestCommandsRequireBackend(t *testing.T) {
	f := newFixture(t)

	if err := f.o.Play(); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Play = %v, want ErrNoBackend", err)
	}
	if err := f.o.Command(CommandShuffleOn); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Command = %v, want ErrNoBackend", err)
	}
}

func TestStatusReflectsActiveBackend(t *testing.T) {
	f := newFixture(t)
	f.o.RegisterBackend(f.local)

	items := testItems(3)
	if err := f.o.SetQueue(items, 1, 5*time.Second); err != nil {
		t.Fatalf("SetQueue: %v", err)
	}
	f.local.SetDuration(3 * time.Minute)

	s := f.o.Status()
	if s.Backend != backend.Local {
		t.Errorf("Backend = %v, want local", s.Backend)
	}
	if s.Index != 1 || s.ItemCount != 3 {
		t.Errorf("Index/ItemCount = %d/%d, want 1/3", s.Index, s.ItemCount)
	}
	if s.Item.ID != "b" {
		t.Errorf("current item = %q, want b", s.Item.ID)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.o.RegisterBackend(f.local)

	if err := f.o.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := f.o.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if !f.local.IsReleased() {
		t.Error("backend not released on close")
	}
	if f.network.Registered() {
		t.Error("network listener still registered after close")
	}
	if !f.eq.Released() {
		t.Error("equalizer not released on close")
	}
	if !f.bcast.Closed() {
		t.Error("broadcast emitter not closed")
	}
}
