package ui

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIBox(t *testing.T) {
	for _, name := range []string{"index.html", "app.js", "style.css"} {
		_, err := fs.Stat(UIBox, name)
		assert.NoError(t, err, name)
	}
}

func TestUIServer(t *testing.T) {
	rec := httptest.NewRecorder()
	UIServer.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.js", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "handleMessage")
}
