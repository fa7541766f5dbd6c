package ffmpeg

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

func getFFProbeFilename() string {
	if runtime.GOOS == "windows" {
		return "ffprobe.exe"
	}
	return "ffprobe"
}

// GetPath returns the path to the ffprobe executable. The configured path is
// preferred, then $PATH, then each of the given directories.
func GetPath(configured string, paths []string) string {
	if configured != "" {
		if p, err := exec.LookPath(configured); err == nil {
			return p
		}
	}

	if p, err := exec.LookPath(getFFProbeFilename()); err == nil {
		return p
	}

	for _, dir := range paths {
		p := filepath.Join(dir, getFFProbeFilename())
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			ret, _ := filepath.Abs(p)
			return ret
		}
	}

	return ""
}
