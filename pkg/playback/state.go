// Package playback keeps a single-source media player in sync with a
// position on a virtual timeline.
package playback

import (
	"math"

	"github.com/storyreel/storyreel/pkg/timeline"
)

// State is the playback state of one preview. It is a value; transitions
// return a new State.
type State struct {
	Timeline    *timeline.Timeline
	Status      Status
	SceneIndex  int
	VirtualTime float64

	// Seeking is set while the commands of a seek are being executed.
	// Time reports received meanwhile are ignored.
	Seeking bool

	// Generation is advanced by every transition that issues a Load or Seek.
	// Player events carrying an older generation are discarded.
	Generation uint64

	// LoadedURL is the source last sent to the player, or empty if nothing
	// usable is loaded.
	LoadedURL string

	// Autoplay is only meaningful while Loading: playback starts on Ready.
	Autoplay bool

	View View
}

// NewState returns the reset state for an empty timeline.
func NewState(view View) State {
	return State{
		Timeline: &timeline.Timeline{},
		Status:   StatusIdle,
		View:     view,
	}
}

// IsPlaying returns true if playback is active or will start once the
// current source is ready.
func (s State) IsPlaying() bool {
	return s.Status == StatusPlaying || (s.Status == StatusLoading && s.Autoplay)
}

func (s State) timeline() *timeline.Timeline {
	if s.Timeline == nil {
		return &timeline.Timeline{}
	}
	return s.Timeline
}

// Progress returns the current playhead position.
func (s State) Progress() Progress {
	total := s.timeline().TotalDuration()

	fraction := 0.0
	if total > 0 {
		fraction = math.Min(math.Max(s.VirtualTime/total, 0), 1)
	}

	return Progress{
		Fraction:      fraction,
		VirtualTime:   s.VirtualTime,
		FormattedTime: FormatTime(s.VirtualTime),
		SceneIndex:    s.SceneIndex,
	}
}

// Snapshot is a serialisable summary of a State.
type Snapshot struct {
	Status        Status    `json:"status"`
	Playing       bool      `json:"isPlaying"`
	TotalDuration float64   `json:"totalDuration"`
	Markers       []int     `json:"markers"`
	MarkerOffsets []float64 `json:"markerOffsets"`
	View          View      `json:"view"`
	Progress
}

func (s State) Snapshot() Snapshot {
	tl := s.timeline()
	markers := tl.Markers()

	return Snapshot{
		Status:        s.Status,
		Playing:       s.IsPlaying(),
		TotalDuration: tl.TotalDuration(),
		Markers:       markers,
		MarkerOffsets: s.View.MarkerPositions(markers),
		View:          s.View,
		Progress:      s.Progress(),
	}
}
