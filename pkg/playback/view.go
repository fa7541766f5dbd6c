package playback

import "math"

const (
	MinPixelsPerSecond     = 10.0
	MaxPixelsPerSecond     = 400.0
	DefaultPixelsPerSecond = 50.0
)

// View is the visible window onto the timeline ruler.
type View struct {
	PixelsPerSecond float64 `json:"pixelsPerSecond"`
	ScrollLeft      float64 `json:"scrollLeft"`
	ViewportWidth   float64 `json:"viewportWidth"`
}

func NewView(pixelsPerSecond float64) View {
	return View{
		PixelsPerSecond: clampZoom(pixelsPerSecond),
	}
}

func clampZoom(pps float64) float64 {
	if math.IsNaN(pps) || pps <= 0 {
		return DefaultPixelsPerSecond
	}
	return math.Min(math.Max(pps, MinPixelsPerSecond), MaxPixelsPerSecond)
}

// ContentWidth returns the width in pixels of a timeline of the given duration.
func (v View) ContentWidth(totalDuration float64) float64 {
	return totalDuration * v.PixelsPerSecond
}

func (v View) maxScroll(totalDuration float64) float64 {
	return math.Max(0, v.ContentWidth(totalDuration)-v.ViewportWidth)
}

// Scroll returns the view scrolled to left, clamped to the content.
func (v View) Scroll(left, totalDuration float64) View {
	if math.IsNaN(left) {
		left = 0
	}
	v.ScrollLeft = math.Min(math.Max(left, 0), v.maxScroll(totalDuration))
	return v
}

// Zoom returns the view with a new scale. The time at the left edge of the
// viewport stays in place where possible.
func (v View) Zoom(pixelsPerSecond, totalDuration float64) View {
	leftTime := v.PixelToTime(v.ScrollLeft, totalDuration)
	v.PixelsPerSecond = clampZoom(pixelsPerSecond)
	return v.Scroll(v.TimeToPixel(leftTime), totalDuration)
}

// Resize returns the view with a new viewport width.
func (v View) Resize(width, totalDuration float64) View {
	if math.IsNaN(width) || width < 0 {
		width = 0
	}
	v.ViewportWidth = width
	return v.Scroll(v.ScrollLeft, totalDuration)
}

// Follow scrolls the view a page at a time so that the playhead at virtual
// time t stays visible.
func (v View) Follow(t, totalDuration float64) View {
	if v.ViewportWidth <= 0 {
		return v
	}

	x := v.TimeToPixel(t)
	if x >= v.ScrollLeft && x < v.ScrollLeft+v.ViewportWidth {
		return v
	}
	return v.Scroll(x, totalDuration)
}

func (v View) TimeToPixel(t float64) float64 {
	return t * v.PixelsPerSecond
}

// PixelToTime converts a position on the ruler to a virtual time within
// [0, totalDuration].
func (v View) PixelToTime(x, totalDuration float64) float64 {
	if v.PixelsPerSecond <= 0 {
		return 0
	}
	return math.Min(math.Max(x/v.PixelsPerSecond, 0), totalDuration)
}

// MarkerPositions returns the pixel offset of each marker.
func (v View) MarkerPositions(markers []int) []float64 {
	ret := make([]float64, len(markers))
	for i, m := range markers {
		ret[i] = v.TimeToPixel(float64(m))
	}
	return ret
}
