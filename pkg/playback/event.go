package playback

import "github.com/storyreel/storyreel/pkg/timeline"

// Event is an input to the playback state machine. User commands and player
// notifications are both events.
type Event interface {
	eventName() string
}

// SetTimeline replaces the timeline being previewed.
type SetTimeline struct {
	Timeline *timeline.Timeline
}

type TogglePlayPause struct{}

// SeekTo moves the playhead to a virtual time.
type SeekTo struct {
	Time float64
}

// MarkerActivated moves the playhead to a whole-second ruler marker.
type MarkerActivated struct {
	Second int
}

// SetZoom changes the number of pixels drawn per second of timeline.
type SetZoom struct {
	PixelsPerSecond float64
}

// ScrollTo scrolls the timeline view to the given pixel offset.
type ScrollTo struct {
	Left float64
}

// SetViewport records the visible width of the timeline view in pixels.
type SetViewport struct {
	Width float64
}

// Player events. Generation echoes the generation of the most recent Load or
// Seek command the player received.

// Ready is sent when the player has loaded enough of its source to play.
type Ready struct {
	Generation uint64
}

// TimeUpdate reports the playback position within the loaded source.
type TimeUpdate struct {
	Generation uint64
	LocalTime  float64
}

// Ended is sent when the loaded source has played to its end.
type Ended struct {
	Generation uint64
}

// LoadError is sent when the player could not load its source.
type LoadError struct {
	Generation uint64
	URL        string
	Message    string
}

func (SetTimeline) eventName() string     { return "setTimeline" }
func (TogglePlayPause) eventName() string { return "togglePlayPause" }
func (SeekTo) eventName() string          { return "seekTo" }
func (MarkerActivated) eventName() string { return "markerActivated" }
func (SetZoom) eventName() string         { return "setZoom" }
func (ScrollTo) eventName() string        { return "scrollTo" }
func (SetViewport) eventName() string     { return "setViewport" }
func (Ready) eventName() string           { return "ready" }
func (TimeUpdate) eventName() string      { return "timeUpdate" }
func (Ended) eventName() string           { return "ended" }
func (LoadError) eventName() string       { return "loadError" }

// EventName returns the wire name of the event.
func EventName(e Event) string {
	return e.eventName()
}
