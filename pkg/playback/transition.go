package playback

import (
	"fmt"
	"math"

	"github.com/storyreel/storyreel/pkg/timeline"
)

// Result is the outcome of a transition: the next state, the commands to send
// to the player, and the updates to report to the observer.
type Result struct {
	State    State
	Commands []Command
	Updates  []Update
}

func (r *Result) command(c ...Command) {
	r.Commands = append(r.Commands, c...)
}

func (r *Result) update(u ...Update) {
	r.Updates = append(r.Updates, u...)
}

// Transition applies an event to a state. It has no side effects. If an error
// is returned the state is unchanged and no commands are issued.
func Transition(s State, e Event) (Result, error) {
	switch e := e.(type) {
	case SetTimeline:
		return setTimeline(s, e.Timeline), nil
	case TogglePlayPause:
		return togglePlayPause(s)
	case SeekTo:
		return seekTo(s, e.Time)
	case MarkerActivated:
		return seekTo(s, float64(e.Second))
	case SetZoom:
		return setView(s, s.View.Zoom(e.PixelsPerSecond, s.timeline().TotalDuration())), nil
	case ScrollTo:
		return setView(s, s.View.Scroll(e.Left, s.timeline().TotalDuration())), nil
	case SetViewport:
		return setView(s, s.View.Resize(e.Width, s.timeline().TotalDuration())), nil
	case Ready:
		return ready(s, e), nil
	case TimeUpdate:
		return timeUpdate(s, e), nil
	case Ended:
		return ended(s, e), nil
	case LoadError:
		return loadError(s, e), nil
	}

	return Result{State: s}, fmt.Errorf("unsupported event %T", e)
}

// FinishSeek clears the seeking flag once the commands of a seek have been
// executed.
func FinishSeek(s State) State {
	s.Seeking = false
	return s
}

func setTimeline(s State, tl *timeline.Timeline) Result {
	if tl == nil {
		tl = &timeline.Timeline{}
	}

	wasPlaying := s.IsPlaying()
	total := tl.TotalDuration()

	ns := State{
		Timeline:   tl,
		Status:     StatusIdle,
		Generation: s.Generation + 1,
		View:       s.View.Scroll(s.View.ScrollLeft, total),
	}

	ret := Result{State: ns}
	ret.update(MarkersChanged{Markers: tl.Markers(), TotalDuration: total})

	if tl.IsEmpty() {
		if wasPlaying {
			ret.command(Pause{})
			ret.update(PlayingChanged{Playing: false})
		}
	} else {
		first, _ := tl.Scene(0)
		ret.State.Status = StatusLoading
		ret.State.Autoplay = wasPlaying
		ret.State.LoadedURL = first.SourceURL
		ret.command(Load{URL: first.SourceURL, Generation: ret.State.Generation})
	}

	if ret.State.View != s.View {
		ret.update(ViewChanged{View: ret.State.View})
	}
	ret.update(ret.State.Progress())

	return ret
}

func togglePlayPause(s State) (Result, error) {
	tl := s.timeline()
	if tl.IsEmpty() {
		return Result{State: s}, timeline.ErrEmptyTimeline
	}

	ret := Result{State: s}

	if s.IsPlaying() {
		ret.State.Status = StatusPaused
		ret.State.Autoplay = false
		ret.command(Pause{})
		ret.update(PlayingChanged{Playing: false})
		return ret, nil
	}

	switch {
	case s.LoadedURL == "":
		// nothing usable is loaded: load the current scene and play once ready
		scene, err := tl.Scene(s.SceneIndex)
		if err != nil {
			return Result{State: s}, err
		}
		bounds, _ := tl.SceneBounds(s.SceneIndex)
		local := clampLocal(s.VirtualTime-bounds.Start, bounds)

		ret.State.Generation++
		ret.State.Status = StatusLoading
		ret.State.Autoplay = true
		ret.State.LoadedURL = scene.SourceURL
		ret.command(Load{URL: scene.SourceURL, Generation: ret.State.Generation})
		if local > 0 {
			ret.command(Seek{LocalTime: local, Generation: ret.State.Generation})
		}
	case s.Status == StatusLoading:
		ret.State.Autoplay = true
	default:
		ret.State.Status = StatusPlaying
		ret.command(Play{})
	}

	ret.update(PlayingChanged{Playing: true})
	ret.update(ret.State.Progress())
	return ret, nil
}

func seekTo(s State, t float64) (Result, error) {
	tl := s.timeline()
	loc, err := tl.Locate(t)
	if err != nil {
		return Result{State: s}, err
	}

	scene, _ := tl.Scene(loc.SceneIndex)

	ret := Result{State: s}
	ret.State.Seeking = true
	ret.State.Generation++
	ret.State.SceneIndex = loc.SceneIndex
	ret.State.VirtualTime = t

	gen := ret.State.Generation
	loaded := false
	if scene.SourceURL != s.LoadedURL {
		loaded = true
		ret.State.LoadedURL = scene.SourceURL
		ret.command(Load{URL: scene.SourceURL, Generation: gen})
	}
	ret.command(Seek{LocalTime: loc.SceneLocalTime, Generation: gen})

	switch {
	case s.IsPlaying():
		ret.State.Status = StatusPlaying
		ret.State.Autoplay = false
		ret.command(Play{})
	case loaded:
		ret.State.Status = StatusLoading
		ret.State.Autoplay = false
	}

	ret.State.View = ret.State.View.Follow(t, tl.TotalDuration())
	if ret.State.View != s.View {
		ret.update(ViewChanged{View: ret.State.View})
	}
	ret.update(ret.State.Progress())

	return ret, nil
}

func setView(s State, v View) Result {
	ret := Result{State: s}
	if v != s.View {
		ret.State.View = v
		ret.update(ViewChanged{View: v})
	}
	return ret
}

func (s State) isStale(generation uint64) bool {
	return generation != s.Generation
}

func ready(s State, e Ready) Result {
	ret := Result{State: s}
	if s.isStale(e.Generation) || s.Status != StatusLoading {
		return ret
	}

	if s.Autoplay {
		ret.State.Status = StatusPlaying
		ret.State.Autoplay = false
		ret.command(Play{})
	} else {
		ret.State.Status = StatusPaused
	}

	return ret
}

func clampLocal(local float64, b timeline.Bounds) float64 {
	if math.IsNaN(local) {
		return 0
	}
	return math.Min(math.Max(local, 0), b.Duration())
}

func timeUpdate(s State, e TimeUpdate) Result {
	ret := Result{State: s}
	if s.Seeking || s.isStale(e.Generation) {
		return ret
	}

	switch s.Status {
	case StatusPlaying, StatusPaused, StatusLoading:
	default:
		return ret
	}

	tl := s.timeline()
	bounds, err := tl.SceneBounds(s.SceneIndex)
	if err != nil {
		return ret
	}

	ret.State.VirtualTime = bounds.Start + clampLocal(e.LocalTime, bounds)

	if s.Status == StatusPlaying {
		ret.State.View = ret.State.View.Follow(ret.State.VirtualTime, tl.TotalDuration())
		if ret.State.View != s.View {
			ret.update(ViewChanged{View: ret.State.View})
		}
	}
	ret.update(ret.State.Progress())

	return ret
}

func ended(s State, e Ended) Result {
	ret := Result{State: s}
	if s.isStale(e.Generation) {
		return ret
	}

	switch s.Status {
	case StatusPlaying, StatusPaused, StatusLoading:
	default:
		return ret
	}

	tl := s.timeline()
	next := s.SceneIndex + 1
	wasPlaying := s.IsPlaying()

	if next < tl.Len() {
		scene, _ := tl.Scene(next)
		bounds, _ := tl.SceneBounds(next)

		ret.State.Generation++
		ret.State.SceneIndex = next
		ret.State.VirtualTime = bounds.Start
		ret.State.LoadedURL = scene.SourceURL
		ret.State.Autoplay = false

		gen := ret.State.Generation
		ret.command(Load{URL: scene.SourceURL, Generation: gen}, Seek{LocalTime: 0, Generation: gen})
		if wasPlaying {
			ret.State.Status = StatusPlaying
			ret.command(Play{})
		} else {
			ret.State.Status = StatusLoading
		}

		ret.update(ret.State.Progress())
		return ret
	}

	// past the last scene: back to the reset position with nothing loaded
	ret.State = State{
		Timeline:   s.Timeline,
		Status:     StatusEnded,
		Generation: s.Generation + 1,
		View:       s.View.Scroll(0, tl.TotalDuration()),
	}

	if wasPlaying {
		ret.update(PlayingChanged{Playing: false})
	}
	if ret.State.View != s.View {
		ret.update(ViewChanged{View: ret.State.View})
	}
	ret.update(ret.State.Progress())

	return ret
}

func loadError(s State, e LoadError) Result {
	ret := Result{State: s}
	if s.isStale(e.Generation) {
		return ret
	}

	url := e.URL
	if url == "" {
		url = s.LoadedURL
	}

	wasPlaying := s.IsPlaying()

	// toggling play afterwards reloads the current scene
	ret.State.LoadedURL = ""
	ret.State.Autoplay = false
	if s.Status != StatusIdle && s.Status != StatusEnded {
		ret.State.Status = StatusPaused
	}

	if wasPlaying {
		ret.command(Pause{})
		ret.update(PlayingChanged{Playing: false})
	}
	ret.update(&PlaybackError{
		SceneIndex: s.SceneIndex,
		URL:        url,
		Message:    e.Message,
	})

	return ret
}
