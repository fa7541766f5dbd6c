package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogCacheNewestFirst(t *testing.T) {
	l := NewLogger()
	l.SetOutput(&bytes.Buffer{})
	l.SetLogLevel("Info")
	l.SetCacheSize(2)

	l.Info("first")
	l.Infof("second %d", 2)
	l.Warn("third")

	cache := l.GetLogCache()
	if assert.Len(t, cache, 2) {
		assert.Equal(t, "third", cache[0].Message)
		assert.Equal(t, "warn", cache[0].Type)
		assert.Equal(t, "second 2", cache[1].Message)
	}
}

func TestLogCacheSkipsDisabledLevels(t *testing.T) {
	l := NewLogger()
	l.SetOutput(&bytes.Buffer{})
	l.SetLogLevel("Warning")

	l.Debug("hidden")
	l.Info("hidden")
	l.Error("shown")

	cache := l.GetLogCache()
	assert.Len(t, cache, 1)
	assert.Equal(t, "error", cache[0].Type)
}
