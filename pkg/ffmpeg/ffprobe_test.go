package ffmpeg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoFile(t *testing.T) {
	out := []byte(`{
		"streams": [
			{"index": 0, "codec_type": "audio", "codec_name": "aac", "duration": "9.98"},
			{"index": 1, "codec_type": "video", "codec_name": "h264", "width": 1280, "height": 720, "duration": "10.0"}
		],
		"format": {"filename": "a.mp4", "format_name": "mov,mp4,m4a", "duration": "10.010000"}
	}`)

	vf, err := parseVideoFile("a.mp4", out)
	require.NoError(t, err)
	assert.Equal(t, 10.01, vf.Duration)
	assert.Equal(t, 1280, vf.Width)
	assert.Equal(t, 720, vf.Height)
	assert.Equal(t, "mov,mp4,m4a", vf.Container)
}

func TestParseVideoFileStreamDuration(t *testing.T) {
	out := []byte(`{
		"streams": [{"codec_type": "video", "duration": "4.5"}],
		"format": {"format_name": "matroska,webm"}
	}`)

	vf, err := parseVideoFile("a.webm", out)
	require.NoError(t, err)
	assert.Equal(t, 4.5, vf.Duration)
}

func TestParseVideoFileErrors(t *testing.T) {
	_, err := parseVideoFile("a.mp4", []byte(`{"format": {}}`))
	assert.ErrorIs(t, err, ErrNoDuration)

	_, err = parseVideoFile("a.mp4", []byte(`{"error": {"code": -2, "string": "No such file or directory"}}`))
	assert.ErrorContains(t, err, "No such file or directory")

	_, err = parseVideoFile("a.mp4", []byte(`not json`))
	assert.Error(t, err)
}

func TestFFProbeUnconfigured(t *testing.T) {
	f := NewFFProbe("")
	_, err := f.Duration(context.Background(), "a.mp4")
	assert.ErrorIs(t, err, ErrFFProbeUnconfigured)
}

func TestFFProbeCache(t *testing.T) {
	f := NewFFProbe("/nonexistent/ffprobe")
	f.cache.Add("a.mp4", VideoFile{Path: "a.mp4", Duration: 3})

	d, err := f.Duration(context.Background(), "a.mp4")
	require.NoError(t, err)
	assert.Equal(t, float64(3), d)

	// reconfiguring invalidates cached results
	f.Configure("/other/ffprobe")
	assert.Equal(t, 0, f.cache.Len())
}
