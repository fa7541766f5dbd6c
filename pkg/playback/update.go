package playback

import "fmt"

// Update is a change observable from outside the controller.
type Update interface {
	isUpdate()
}

// PlayingChanged is emitted whenever playback starts or stops.
type PlayingChanged struct {
	Playing bool
}

// Progress describes the playhead position.
type Progress struct {
	Fraction      float64 `json:"progressFraction"`
	VirtualTime   float64 `json:"currentVirtualTime"`
	FormattedTime string  `json:"formattedCurrentTime"`
	SceneIndex    int     `json:"currentSceneIndex"`
}

// MarkersChanged is emitted whenever the timeline is replaced.
type MarkersChanged struct {
	Markers       []int
	TotalDuration float64
}

// ViewChanged is emitted whenever zoom or scroll changes.
type ViewChanged struct {
	View View
}

// PlaybackError reports a source that could not be loaded. It is not fatal.
type PlaybackError struct {
	SceneIndex int    `json:"sceneIndex"`
	URL        string `json:"url"`
	Message    string `json:"message,omitempty"`
}

func (e *PlaybackError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("scene %d: could not load %s: %s", e.SceneIndex, e.URL, e.Message)
	}
	return fmt.Sprintf("scene %d: could not load %s", e.SceneIndex, e.URL)
}

func (PlayingChanged) isUpdate() {}
func (Progress) isUpdate()       {}
func (MarkersChanged) isUpdate() {}
func (ViewChanged) isUpdate()    {}
func (*PlaybackError) isUpdate() {}

// Observer receives the controller's outbound notifications.
type Observer interface {
	PlayingChanged(playing bool)
	ProgressChanged(p Progress)
	MarkersChanged(markers []int, totalDuration float64)
	ViewChanged(v View)
	PlaybackError(err *PlaybackError)
}

func notify(o Observer, updates []Update) {
	if o == nil {
		return
	}

	for _, u := range updates {
		switch u := u.(type) {
		case PlayingChanged:
			o.PlayingChanged(u.Playing)
		case Progress:
			o.ProgressChanged(u)
		case MarkersChanged:
			o.MarkersChanged(u.Markers, u.TotalDuration)
		case ViewChanged:
			o.ViewChanged(u.View)
		case *PlaybackError:
			o.PlaybackError(u)
		}
	}
}
