package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewViewClampsZoom(t *testing.T) {
	assert.Equal(t, DefaultPixelsPerSecond, NewView(0).PixelsPerSecond)
	assert.Equal(t, MinPixelsPerSecond, NewView(1).PixelsPerSecond)
	assert.Equal(t, MaxPixelsPerSecond, NewView(10000).PixelsPerSecond)
	assert.Equal(t, float64(80), NewView(80).PixelsPerSecond)
}

func TestViewScroll(t *testing.T) {
	v := NewView(100).Resize(300, 10)

	assert.Equal(t, float64(0), v.Scroll(-10, 10).ScrollLeft)
	assert.Equal(t, float64(400), v.Scroll(400, 10).ScrollLeft)
	assert.Equal(t, float64(700), v.Scroll(5000, 10).ScrollLeft)

	// content narrower than the viewport cannot scroll
	assert.Equal(t, float64(0), v.Scroll(100, 2).ScrollLeft)
}

func TestViewZoomKeepsLeftEdge(t *testing.T) {
	v := NewView(100).Resize(300, 20).Scroll(500, 20)
	assert.Equal(t, float64(5), v.PixelToTime(v.ScrollLeft, 20))

	z := v.Zoom(200, 20)
	assert.Equal(t, float64(200), z.PixelsPerSecond)
	assert.Equal(t, float64(1000), z.ScrollLeft)
}

func TestViewFollow(t *testing.T) {
	v := NewView(100).Resize(300, 20)

	assert.Equal(t, v, v.Follow(2, 20))

	f := v.Follow(4, 20)
	assert.Equal(t, float64(400), f.ScrollLeft)

	// near the end the page is clamped to the content
	f = v.Follow(19, 20)
	assert.Equal(t, float64(1700), f.ScrollLeft)
}

func TestMarkerPositions(t *testing.T) {
	v := NewView(50)
	assert.Equal(t, []float64{50, 100, 150}, v.MarkerPositions([]int{1, 2, 3}))
	assert.Empty(t, v.MarkerPositions(nil))
}
