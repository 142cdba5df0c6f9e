package session

import "time"

// Custom session command identifiers. The three repeat identifiers all
// trigger the same cycle; the next mode is computed from the current one.
const (
	CommandShuffleOn  = "shuffle-on"
	CommandShuffleOff = "shuffle-off"
	CommandRepeatOff  = "repeat-off"
	CommandRepeatOne  = "repeat-one"
	CommandRepeatAll  = "repeat-all"
)

// ActionBind is the connection action used by control binders. Clients
// connecting with any other action get session access but no control layout.
const ActionBind = "com.llehouerou.tempest.BIND"

// Control is one advertised session button.
type Control struct {
	Command string
	Icon    string
}

// ControlsListener receives the advertised control layout whenever it
// changes.
type ControlsListener func(controls []Control)

// Config holds the orchestrator's intervals and timeouts. Built once at
// construction and never mutated.
type Config struct {
	// WidgetInterval is the progress-update period while playing.
	WidgetInterval time.Duration
	// RadioProbeDelay is the fixed delay between header probes while a
	// radio item plays.
	RadioProbeDelay time.Duration
	// RadioProbeTimeout bounds each probe request.
	RadioProbeTimeout time.Duration
	// EqualizerDebounce delays equalizer attach after an audio-session
	// change; a newer change cancels the pending attach.
	EqualizerDebounce time.Duration
	// ProbeUserAgent overrides the probe's User-Agent when non-empty.
	ProbeUserAgent string
	// FrontendURL is the web frontend used for widget deep links; empty
	// falls back to the tempest:// scheme.
	FrontendURL string
}

// DefaultConfig returns the standard intervals.
func DefaultConfig() Config {
	return Config{
		WidgetInterval:    time.Second,
		RadioProbeDelay:   10 * time.Second,
		RadioProbeTimeout: 5 * time.Second,
		EqualizerDebounce: 150 * time.Millisecond,
	}
}

// withDefaults fills zero intervals so tests can set only what they need.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WidgetInterval <= 0 {
		c.WidgetInterval = d.WidgetInterval
	}
	if c.RadioProbeDelay <= 0 {
		c.RadioProbeDelay = d.RadioProbeDelay
	}
	if c.RadioProbeTimeout <= 0 {
		c.RadioProbeTimeout = d.RadioProbeTimeout
	}
	if c.EqualizerDebounce <= 0 {
		c.EqualizerDebounce = d.EqualizerDebounce
	}
	return c
}
