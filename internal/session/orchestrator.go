// Package session implements the playback-session orchestrator: the single
// owner of the queue, the active backend, and every event-reaction policy
// (transfer, restore, widget throttling, scrobbling, radio metadata merge,
// network remap, equalizer debouncing).
package session

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/broadcast"
	"github.com/llehouerou/tempest/internal/equalizer"
	"github.com/llehouerou/tempest/internal/netmon"
	"github.com/llehouerou/tempest/internal/scrobble"
	"github.com/llehouerou/tempest/internal/state"
	"github.com/llehouerou/tempest/internal/streammeta"
	"github.com/llehouerou/tempest/internal/widget"
)

const callQueueSize = 128

// Options configures a new Orchestrator. Nil collaborators are replaced
// with no-op implementations.
type Options struct {
	Config    Config
	Store     state.Store
	Scrobbler scrobble.Scrobbler
	Widget    widget.Sink
	Equalizer equalizer.Interface
	Network   netmon.Monitor
	Resolver  Resolver
	Prober    MetaProber
	Broadcast broadcast.Emitter
	Logger    *slog.Logger
	Rand      *rand.Rand
}

// Orchestrator is the session state machine. All state below the mutex-free
// line is owned by the control goroutine; commands, backend events, timer
// fires and async results are closures posted to the run loop.
type Orchestrator struct {
	cfg       Config
	log       *slog.Logger
	store     state.Store
	scrobbler scrobble.Scrobbler
	widget    widget.Sink
	eq        equalizer.Interface
	network   netmon.Monitor
	resolver  Resolver
	prober    MetaProber
	bcast     broadcast.Emitter
	rng       *rand.Rand

	calls chan func()
	quit  chan struct{}
	done  chan struct{}

	closeOnce sync.Once

	// Control-goroutine state. Never touched off the loop.
	active   backend.Interface
	backends map[backend.Kind]backend.Interface
	pumps    map[backend.Kind]chan struct{}

	prevPlaying bool
	prevShuffle bool
	prevRepeat  backend.RepeatMode
	prevValid   bool

	nowPlayingChanged bool
	justStarted       bool

	lastRadioArtist string
	lastRadioTitle  string

	lastTransport    netmon.TransportClass
	transportKnown   bool
	networkListening bool

	widgetStop chan struct{}

	probeTimer *time.Timer
	probeGen   int

	eqTimer *time.Timer
	eqGen   int

	controls ControlsListener
}

// New builds and starts an orchestrator. Backends are registered
// separately with RegisterBackend.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		cfg:       opts.Config.withDefaults(),
		log:       opts.Logger,
		store:     opts.Store,
		scrobbler: opts.Scrobbler,
		widget:    opts.Widget,
		eq:        opts.Equalizer,
		network:   opts.Network,
		resolver:  opts.Resolver,
		prober:    opts.Prober,
		bcast:     opts.Broadcast,
		rng:       opts.Rand,

		calls:    make(chan func(), callQueueSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		backends: make(map[backend.Kind]backend.Interface),
		pumps:    make(map[backend.Kind]chan struct{}),

		justStarted: true,
	}
	if o.log == nil {
		o.log = slog.New(slog.DiscardHandler)
	}
	if o.store == nil {
		o.store = state.NewMemoryStore()
	}
	if o.scrobbler == nil {
		o.scrobbler = scrobble.Nop{}
	}
	if o.widget == nil {
		o.widget = widget.Nop{}
	}
	if o.eq == nil {
		o.eq = equalizer.Nop{}
	}
	if o.network == nil {
		o.network = netmon.Nop{}
	}
	if o.resolver == nil {
		o.resolver = nopResolver
	}
	if o.prober == nil {
		o.prober = streammeta.NewProber(o.cfg.RadioProbeTimeout, o.cfg.ProbeUserAgent)
	}
	if o.bcast == nil {
		o.bcast = broadcast.Nop{}
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	go o.run()

	if err := o.network.Register(func(t netmon.TransportClass) {
		o.do(func() { o.onTransportChange(t) })
	}); err != nil {
		o.log.Warn("network monitor registration failed", "err", err)
	} else {
		o.call(func() { o.networkListening = true })
	}

	return o
}

func (o *Orchestrator) run() {
	defer close(o.done)
	for {
		select {
		case fn := <-o.calls:
			fn()
		case <-o.quit:
			return
		}
	}
}

// do posts a closure to the control loop. Posts after Close are dropped.
func (o *Orchestrator) do(fn func()) {
	select {
	case o.calls <- fn:
	case <-o.quit:
	}
}

// call posts a closure and waits for it to run.
func (o *Orchestrator) call(fn func()) {
	ran := make(chan struct{})
	o.do(func() {
		fn()
		close(ran)
	})
	select {
	case <-ran:
	case <-o.quit:
	}
}

// RegisterBackend adds a backend and starts draining its events. The first
// registered backend becomes active: persisted modes are applied and the
// queue is restored if the backend is empty.
func (o *Orchestrator) RegisterBackend(b backend.Interface) {
	o.call(func() {
		kind := b.Kind()
		o.backends[kind] = b
		o.startPump(kind, b)
		if o.active == nil {
			o.active = b
			o.applyPersistedModes(b)
			o.restoreQueue()
		}
	})
}

// BackendAvailable transfers the session to the backend of the given kind,
// e.g. when a remote renderer connects.
func (o *Orchestrator) BackendAvailable(kind backend.Kind) {
	o.call(func() {
		b, ok := o.backends[kind]
		if !ok {
			o.log.Warn("backend not registered", "kind", kind)
			return
		}
		if err := o.transfer(b); err != nil {
			o.log.Warn("backend transfer failed", "kind", kind, "err", err)
		}
	})
}

// BackendUnavailable transfers away from the given kind if it is active,
// preferring the local backend as the fallback target.
func (o *Orchestrator) BackendUnavailable(kind backend.Kind) {
	o.call(func() {
		if o.active == nil || o.active.Kind() != kind {
			return
		}
		var target backend.Interface
		if b, ok := o.backends[backend.Local]; ok && b != o.active {
			target = b
		} else {
			for k, b := range o.backends {
				if k != kind {
					target = b
					break
				}
			}
		}
		if target == nil {
			o.log.Warn("no fallback backend", "kind", kind)
			return
		}
		if err := o.transfer(target); err != nil {
			o.log.Warn("fallback transfer failed", "err", err)
		}
	})
}

// startPump drains a backend's event channel onto the control loop.
func (o *Orchestrator) startPump(kind backend.Kind, b backend.Interface) {
	if stop, ok := o.pumps[kind]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	o.pumps[kind] = stop
	go func() {
		for {
			select {
			case e, ok := <-b.Events():
				if !ok {
					return
				}
				o.do(func() { o.handleEvent(b, e) })
			case <-stop:
				return
			}
		}
	}()
}

func (o *Orchestrator) applyPersistedModes(b backend.Interface) {
	shuffle, repeat, err := o.store.Modes()
	if err != nil {
		o.log.Warn("loading persisted modes failed", "err", err)
		return
	}
	b.SetShuffle(shuffle)
	b.SetRepeatMode(repeat)
}

// Status returns a consistent snapshot read on the control loop.
func (o *Orchestrator) Status() Status {
	var s Status
	o.call(func() {
		b := o.active
		if b == nil {
			return
		}
		s.Backend = b.Kind()
		s.Index = b.CurrentIndex()
		s.ItemCount = b.ItemCount()
		s.Position = b.Position()
		s.Duration = b.Duration()
		s.IsPlaying = b.IsPlaying()
		s.Shuffle = b.Shuffle()
		s.Repeat = b.RepeatMode()
		if it, err := b.Item(s.Index); err == nil {
			s.Item = it
		}
	})
	return s
}

// Close tears the session down: timers, network listener, equalizer,
// backends, then resources, each step best-effort.
func (o *Orchestrator) Close() error {
	o.closeOnce.Do(func() {
		o.call(o.teardown)
		close(o.quit)
		<-o.done
	})
	return nil
}

func (o *Orchestrator) teardown() {
	o.step("persist playhead", func() {
		b := o.active
		if b == nil || b.ItemCount() == 0 {
			return
		}
		if err := o.store.SavePlayhead(b.CurrentIndex(), b.Position()); err != nil {
			o.log.Warn("persisting playhead failed", "err", err)
		}
	})
	o.step("timers", func() {
		o.stopWidgetTimer()
		o.cancelProbe()
		o.cancelEqualizerAttach()
	})
	o.step("network listener", func() {
		if o.networkListening {
			o.network.Unregister()
			o.networkListening = false
		}
	})
	o.step("equalizer", func() {
		o.eq.Release()
	})
	o.step("backends", func() {
		for kind, b := range o.backends {
			b.Release()
			if stop, ok := o.pumps[kind]; ok {
				close(stop)
				delete(o.pumps, kind)
			}
		}
		o.active = nil
	})
	o.step("resources", func() {
		if err := o.bcast.Close(); err != nil {
			o.log.Warn("closing broadcast emitter failed", "err", err)
		}
	})
}

// step runs one teardown step, surviving panics so later steps still run.
func (o *Orchestrator) step(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Warn("teardown step failed", "step", name, "panic", r)
		}
	}()
	fn()
}

var _ Service = (*Orchestrator)(nil)
