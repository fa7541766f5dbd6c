// Package ffmpeg provides a wrapper around the ffprobe executable.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	jsoniter "github.com/json-iterator/go"

	"github.com/storyreel/storyreel/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrFFProbeUnconfigured = errors.New("ffprobe not configured")
	ErrNoDuration          = errors.New("source has no duration")
)

const defaultProbeCacheSize = 256

// FFProbeJSON is the subset of ffprobe's JSON output that is used.
type FFProbeJSON struct {
	Format struct {
		Filename   string `json:"filename"`
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		Index     int    `json:"index"`
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Duration  string `json:"duration"`
		Width     int    `json:"width,omitempty"`
		Height    int    `json:"height,omitempty"`
	} `json:"streams"`
	Error *struct {
		Code   int    `json:"code"`
		String string `json:"string"`
	} `json:"error"`
}

// VideoFile is the probed information about a source.
type VideoFile struct {
	Path      string
	Container string
	Duration  float64
	Width     int
	Height    int
}

// FFProbe runs ffprobe against video sources. Results are cached by source.
type FFProbe struct {
	path  string
	cache *lru.Cache
}

func NewFFProbe(path string) *FFProbe {
	cache, _ := lru.New(defaultProbeCacheSize)
	return &FFProbe{
		path:  path,
		cache: cache,
	}
}

func (f *FFProbe) Configure(path string) {
	if f.path != path {
		f.cache.Purge()
	}
	f.path = path
}

func (f *FFProbe) Path() string {
	return f.path
}

// NewVideoFile runs ffprobe on the given path or URL.
func (f *FFProbe) NewVideoFile(ctx context.Context, videoPath string) (*VideoFile, error) {
	if f.path == "" {
		return nil, ErrFFProbeUnconfigured
	}

	if cached, ok := f.cache.Get(videoPath); ok {
		ret := cached.(VideoFile)
		return &ret, nil
	}

	args := []string{"-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", "-show_error", videoPath}
	cmd := exec.CommandContext(ctx, f.path, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running ffprobe <%s>: %w", strings.Join(args, " "), err)
	}

	ret, err := parseVideoFile(videoPath, out)
	if err != nil {
		return nil, err
	}

	logger.Debugf("[ffprobe] %s: duration %.3f", videoPath, ret.Duration)
	f.cache.Add(videoPath, *ret)
	return ret, nil
}

// Duration returns the duration in seconds of the given source.
func (f *FFProbe) Duration(ctx context.Context, videoPath string) (float64, error) {
	vf, err := f.NewVideoFile(ctx, videoPath)
	if err != nil {
		return 0, err
	}
	return vf.Duration, nil
}

func parseVideoFile(videoPath string, data []byte) (*VideoFile, error) {
	probeJSON := &FFProbeJSON{}
	if err := json.Unmarshal(data, probeJSON); err != nil {
		return nil, fmt.Errorf("parsing ffprobe output for %s: %w", videoPath, err)
	}

	if probeJSON.Error != nil {
		return nil, fmt.Errorf("ffprobe %s: %s (%d)", videoPath, probeJSON.Error.String, probeJSON.Error.Code)
	}

	ret := &VideoFile{
		Path:      videoPath,
		Container: probeJSON.Format.FormatName,
	}

	ret.Duration = parseDuration(probeJSON.Format.Duration)
	for _, s := range probeJSON.Streams {
		if s.CodecType != "video" {
			continue
		}
		ret.Width = s.Width
		ret.Height = s.Height
		// some containers only report the duration on the stream
		if ret.Duration == 0 {
			ret.Duration = parseDuration(s.Duration)
		}
		break
	}

	if ret.Duration <= 0 {
		return nil, fmt.Errorf("%s: %w", videoPath, ErrNoDuration)
	}

	return ret, nil
}

func parseDuration(s string) float64 {
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return d
}
