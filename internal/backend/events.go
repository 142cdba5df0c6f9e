package backend

import (
	"time"

	"github.com/llehouerou/tempest/internal/queue"
	"github.com/llehouerou/tempest/internal/streammeta"
)

// Event is the marker interface for backend events. The concrete types below
// form a closed set; the orchestrator switches on them.
type Event interface {
	event()
}

// TransitionReason classifies why the current item changed.
type TransitionReason int

const (
	TransitionSeek TransitionReason = iota
	TransitionAuto
	TransitionPlaylistChanged
)

// DiscontinuityReason classifies why the playback position jumped.
type DiscontinuityReason int

const (
	DiscontinuitySeek DiscontinuityReason = iota
	DiscontinuityAutoTransition
)

// PositionInfo describes one side of a position discontinuity.
type PositionInfo struct {
	Item     queue.Item
	Index    int
	Position time.Duration
}

// ItemTransition is emitted when playback moves to a different item.
type ItemTransition struct {
	Item   queue.Item
	Index  int
	Reason TransitionReason
}

// TracksChanged is emitted when the engine's track/format information for
// the current item becomes available or changes.
type TracksChanged struct{}

// IsPlayingChanged is emitted on play/pause edges.
type IsPlayingChanged struct {
	IsPlaying bool
}

// PlaybackStateChanged is emitted when the engine state machine moves.
type PlaybackStateChanged struct {
	State State
}

// PositionDiscontinuity is emitted when the position jumps (seek or
// automatic advance).
type PositionDiscontinuity struct {
	Reason DiscontinuityReason
	Old    PositionInfo
	New    PositionInfo
}

// ShuffleChanged is emitted when shuffle is toggled on the engine.
type ShuffleChanged struct {
	Enabled bool
}

// RepeatChanged is emitted when the repeat mode changes on the engine.
type RepeatChanged struct {
	Mode RepeatMode
}

// AudioSessionChanged is emitted when the engine's audio session id changes,
// e.g. after the output is re-created.
type AudioSessionChanged struct {
	SessionID int
}

// StreamMetadata carries decoder-emitted metadata frames (ICY, ID3, Vorbis)
// for the current item.
type StreamMetadata struct {
	Frames []streammeta.Frame
}

func (ItemTransition) event()        {}
func (TracksChanged) event()         {}
func (IsPlayingChanged) event()      {}
func (PlaybackStateChanged) event()  {}
func (PositionDiscontinuity) event() {}
func (ShuffleChanged) event()        {}
func (RepeatChanged) event()         {}
func (AudioSessionChanged) event()   {}
func (StreamMetadata) event()        {}
