// Package timeline maps an ordered list of scenes onto one continuous
// virtual timeline.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/storyreel/storyreel/pkg/models"
)

var (
	ErrEmptyTimeline   = errors.New("timeline is empty")
	ErrOutOfRange      = errors.New("time is outside the timeline")
	ErrIndexOutOfRange = errors.New("scene index out of range")
	ErrInvalidDuration = errors.New("scene duration must be a positive number of seconds")
)

// MaxTotalDuration bounds the summed length of a timeline, in seconds. It
// keeps the marker list to a size the ruler can render.
const MaxTotalDuration = 7 * 24 * 60 * 60

// Location is the result of resolving a virtual time to a scene.
type Location struct {
	SceneIndex     int
	SceneStartTime float64
	SceneLocalTime float64
}

// Bounds is the half-open virtual interval [Start, End) occupied by a scene.
type Bounds struct {
	Start float64
	End   float64
}

// Duration returns End - Start.
func (b Bounds) Duration() float64 {
	return b.End - b.Start
}

// Timeline is an ordered scene list with its cumulative offsets. The zero
// value is an empty timeline. Scenes are only ever replaced wholesale, so all
// queries are pure over the most recent snapshot.
type Timeline struct {
	scenes []models.Scene

	// offsets has len(scenes)+1 entries; offsets[i] is the start of scene i
	// and offsets[len(scenes)] is the total duration.
	offsets []float64
	markers []int
}

// New creates a timeline from the given scenes.
func New(scenes []models.Scene) (*Timeline, error) {
	t := &Timeline{}
	if err := t.SetScenes(scenes); err != nil {
		return nil, err
	}
	return t, nil
}

// SetScenes replaces the scene list. If any scene has an invalid duration, or
// the total exceeds MaxTotalDuration, the whole list is rejected and the
// previous list is kept.
func (t *Timeline) SetScenes(scenes []models.Scene) error {
	for i, s := range scenes {
		if !s.HasValidDuration() {
			return fmt.Errorf("scene %d (%q) has duration %v: %w", i, s.DisplayName, s.DurationSeconds, ErrInvalidDuration)
		}
	}

	newScenes := make([]models.Scene, len(scenes))
	copy(newScenes, scenes)

	offsets := make([]float64, len(newScenes)+1)
	for i, s := range newScenes {
		offsets[i+1] = offsets[i] + s.DurationSeconds
	}

	if total := offsets[len(newScenes)]; total > MaxTotalDuration {
		return fmt.Errorf("total duration %v exceeds %d seconds: %w", total, MaxTotalDuration, ErrInvalidDuration)
	}

	t.scenes = newScenes
	t.offsets = offsets
	t.markers = generateMarkers(offsets[len(newScenes)])

	return nil
}

func generateMarkers(total float64) []int {
	n := int(math.Floor(total))
	ret := make([]int, n)
	for i := range ret {
		ret[i] = i + 1
	}
	return ret
}

// Scenes returns a copy of the current scene list.
func (t *Timeline) Scenes() []models.Scene {
	ret := make([]models.Scene, len(t.scenes))
	copy(ret, t.scenes)
	return ret
}

func (t *Timeline) Len() int {
	return len(t.scenes)
}

func (t *Timeline) IsEmpty() bool {
	return len(t.scenes) == 0
}

// Scene returns the scene at index i.
func (t *Timeline) Scene(i int) (models.Scene, error) {
	if i < 0 || i >= len(t.scenes) {
		return models.Scene{}, fmt.Errorf("index %d of %d: %w", i, len(t.scenes), ErrIndexOutOfRange)
	}
	return t.scenes[i], nil
}

// TotalDuration returns the sum of all scene durations, in list order.
func (t *Timeline) TotalDuration() float64 {
	if len(t.offsets) == 0 {
		return 0
	}
	return t.offsets[len(t.offsets)-1]
}

// Locate resolves a virtual time to the scene playing at that time. Each
// scene occupies [start, end); a time equal to a boundary belongs to the
// following scene.
func (t *Timeline) Locate(vt float64) (Location, error) {
	if len(t.scenes) == 0 {
		return Location{}, ErrEmptyTimeline
	}

	total := t.TotalDuration()
	if math.IsNaN(vt) || vt < 0 || vt >= total {
		return Location{}, fmt.Errorf("time %v not in [0, %v): %w", vt, total, ErrOutOfRange)
	}

	// first scene whose end is strictly greater than vt
	i := sort.Search(len(t.scenes), func(i int) bool {
		return t.offsets[i+1] > vt
	})

	start := t.offsets[i]
	return Location{
		SceneIndex:     i,
		SceneStartTime: start,
		SceneLocalTime: vt - start,
	}, nil
}

// SceneBounds returns the virtual interval occupied by scene i.
func (t *Timeline) SceneBounds(i int) (Bounds, error) {
	if i < 0 || i >= len(t.scenes) {
		return Bounds{}, fmt.Errorf("index %d of %d: %w", i, len(t.scenes), ErrIndexOutOfRange)
	}
	return Bounds{
		Start: t.offsets[i],
		End:   t.offsets[i+1],
	}, nil
}

// Markers returns the whole-second ruler markers 1..floor(total).
func (t *Timeline) Markers() []int {
	ret := make([]int, len(t.markers))
	copy(ret, t.markers)
	return ret
}
