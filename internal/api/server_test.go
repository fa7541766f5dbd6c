package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyreel/storyreel/internal/log"
	"github.com/storyreel/storyreel/internal/manager"
	"github.com/storyreel/storyreel/pkg/models"
	"github.com/storyreel/storyreel/pkg/playback"
)

type fakeScenes map[int]models.Scene

func (f fakeScenes) Query(ctx context.Context, q string) ([]*models.Scene, error) {
	var ret []*models.Scene
	for id := 1; id <= len(f); id++ {
		s := f[id]
		if strings.Contains(strings.ToLower(s.DisplayName), strings.ToLower(q)) {
			ret = append(ret, &s)
		}
	}
	return ret, nil
}

func (f fakeScenes) Find(ctx context.Context, id int) (*models.Scene, error) {
	s, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("scene %d: %w", id, models.ErrNotFound)
	}
	return &s, nil
}

func (f fakeScenes) ForTimeline(ctx context.Context, id int) (models.Scene, error) {
	s, err := f.Find(ctx, id)
	if err != nil {
		return models.Scene{}, err
	}
	return *s, nil
}

type fakeLogs []log.LogItem

func (f fakeLogs) GetLogCache() []log.LogItem {
	return f
}

type fakeSystem struct{}

func (fakeSystem) GetSystemStatus() *models.SystemStatus {
	return &models.SystemStatus{AppSchema: 1, DatabaseSchema: 1, Status: models.SystemStatusEnumNoFFProbe}
}

func testCatalog() fakeScenes {
	ret := fakeScenes{}
	for i, name := range []string{"Alpha", "Bravo", "Charlie"} {
		id := i + 1
		ret[id] = models.Scene{
			ID:              id,
			SourceURL:       fmt.Sprintf("https://example.com/%d.mp4", id),
			DisplayName:     name,
			DurationSeconds: 5,
			Color:           "#336699",
		}
	}
	return ret
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	sessions, err := manager.NewSessionManager(8, playback.DefaultPixelsPerSecond)
	require.NoError(t, err)
	t.Cleanup(sessions.Close)

	return &Server{
		Scenes:   testCatalog(),
		Sessions: sessions,
		Logs: fakeLogs{
			{Time: time.Unix(10, 0), Type: "info", Message: "started"},
		},
		System: fakeSystem{},
	}
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func (c apiClient) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c apiClient) state(method, path, body string) manager.SessionState {
	c.t.Helper()

	rec := c.do(method, path, body)
	require.Contains(c.t, []int{http.StatusOK, http.StatusCreated}, rec.Code, rec.Body.String())

	var ret manager.SessionState
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &ret))
	return ret
}

func TestScenes(t *testing.T) {
	c := apiClient{t, newTestServer(t).Routes()}

	rec := c.do("GET", "/api/scenes?q=rav", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var scenes []models.Scene
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scenes))
	require.Len(t, scenes, 1)
	assert.Equal(t, "Bravo", scenes[0].DisplayName)

	rec = c.do("GET", "/api/scenes?q=zzz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = c.do("GET", "/api/scenes/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"displayName":"Charlie"`)

	assert.Equal(t, http.StatusNotFound, c.do("GET", "/api/scenes/42", "").Code)
	assert.Equal(t, http.StatusBadRequest, c.do("GET", "/api/scenes/abc", "").Code)
}

func TestSessionTimeline(t *testing.T) {
	c := apiClient{t, newTestServer(t).Routes()}

	state := c.state("POST", "/api/sessions", "")
	require.NotEmpty(t, state.ID)
	assert.Equal(t, playback.StatusIdle, state.Status)
	base := "/api/sessions/" + state.ID

	state = c.state("PUT", base+"/timeline", `{"sceneIds":[1,2,3]}`)
	assert.Equal(t, 15.0, state.TotalDuration)
	assert.Len(t, state.Markers, 15)
	assert.Equal(t, playback.StatusLoading, state.Status)

	state = c.state("POST", base+"/timeline/move", `{"from":2,"to":0}`)
	require.Len(t, state.Scenes, 3)
	assert.Equal(t, "Charlie", state.Scenes[0].DisplayName)

	state = c.state("POST", base+"/timeline/insert", `{"sceneId":2,"index":1}`)
	require.Len(t, state.Scenes, 4)
	assert.Equal(t, "Bravo", state.Scenes[1].DisplayName)

	state = c.state("POST", base+"/timeline/remove", `{"index":0}`)
	require.Len(t, state.Scenes, 3)
	assert.Equal(t, "Bravo", state.Scenes[0].DisplayName)

	state = c.state("POST", base+"/timeline/append", `{"sceneId":1}`)
	assert.Equal(t, 20.0, state.TotalDuration)

	assert.Equal(t, http.StatusNotFound, c.do("POST", base+"/timeline/append", `{"sceneId":99}`).Code)
	assert.Equal(t, http.StatusNotFound, c.do("PUT", base+"/timeline", `{"sceneIds":[1,99]}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, c.do("POST", base+"/timeline/remove", `{"index":10}`).Code)
	assert.Equal(t, http.StatusBadRequest, c.do("POST", base+"/timeline/move", `{"from":`).Code)

	// edits are rejected while playing
	state = c.state("POST", base+"/toggle", "")
	assert.True(t, state.Playing)
	assert.Equal(t, http.StatusConflict, c.do("POST", base+"/timeline/append", `{"sceneId":1}`).Code)

	state = c.state("POST", base+"/toggle", "")
	assert.False(t, state.Playing)
	state = c.state("POST", base+"/timeline/append", `{"sceneId":1}`)
	assert.Equal(t, 25.0, state.TotalDuration)
}

func TestSessionPlayback(t *testing.T) {
	c := apiClient{t, newTestServer(t).Routes()}

	base := "/api/sessions/" + c.state("POST", "/api/sessions", "").ID

	// nothing to play yet
	assert.Equal(t, http.StatusUnprocessableEntity, c.do("POST", base+"/toggle", "").Code)

	c.state("PUT", base+"/timeline", `{"sceneIds":[1,2,3]}`)

	state := c.state("POST", base+"/seek?t=7", "")
	assert.Equal(t, 1, state.SceneIndex)
	assert.Equal(t, 7.0, state.VirtualTime)
	assert.Equal(t, "0:07", state.FormattedTime)
	assert.InDelta(t, 7.0/15, state.Fraction, 1e-9)

	state = c.state("POST", base+"/markers/12", "")
	assert.Equal(t, 2, state.SceneIndex)
	assert.Equal(t, 12.0, state.VirtualTime)

	assert.Equal(t, http.StatusUnprocessableEntity, c.do("POST", base+"/seek?t=15", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, c.do("POST", base+"/markers/15", "").Code)
	assert.Equal(t, http.StatusBadRequest, c.do("POST", base+"/seek?t=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, c.do("POST", base+"/seek", "").Code)
	assert.Equal(t, http.StatusBadRequest, c.do("POST", base+"/markers/x", "").Code)

	state = c.state("POST", base+"/view", `{"viewport":200,"zoom":100}`)
	assert.Equal(t, 100.0, state.View.PixelsPerSecond)
	assert.Equal(t, 200.0, state.View.ViewportWidth)

	state = c.state("POST", base+"/view", `{"scroll":100000}`)
	assert.Equal(t, 15*100.0-200, state.View.ScrollLeft)
}

func TestSessionNotFound(t *testing.T) {
	c := apiClient{t, newTestServer(t).Routes()}

	assert.Equal(t, http.StatusNotFound, c.do("GET", "/api/sessions/unknown", "").Code)

	id := c.state("POST", "/api/sessions", "").ID
	assert.Equal(t, http.StatusNoContent, c.do("DELETE", "/api/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, c.do("GET", "/api/sessions/"+id, "").Code)
}

func TestLogs(t *testing.T) {
	c := apiClient{t, newTestServer(t).Routes()}

	rec := c.do("GET", "/api/logs", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []LogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "started", entries[0].Message)
	assert.Equal(t, "info", entries[0].Level)
}

func TestSystemStatus(t *testing.T) {
	c := apiClient{t, newTestServer(t).Routes()}

	rec := c.do("GET", "/api/system", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, models.SystemStatusEnumNoFFProbe, status.Status)
	assert.Equal(t, 1, status.AppSchema)
}

func TestHealthz(t *testing.T) {
	c := apiClient{t, newTestServer(t).Routes()}
	assert.Equal(t, http.StatusOK, c.do("GET", "/healthz", "").Code)
}

// readUntil reads messages from conn until one of type mt arrives.
func readUntil(t *testing.T, conn *websocket.Conn, mt manager.MessageType) manager.Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var m manager.Message
		require.NoError(t, conn.ReadJSON(&m))
		if m.Type == mt {
			return m
		}
	}
}

func TestPreviewWebsocket(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Routes())
	defer srv.Close()

	c := apiClient{t, srv.Config.Handler}
	id := c.state("POST", "/api/sessions", "").ID
	base := "/api/sessions/" + id

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + base + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	state := readUntil(t, conn, manager.MessageState)
	require.NotNil(t, state.State)
	assert.Equal(t, id, state.State.ID)

	require.NoError(t, conn.WriteJSON(manager.Message{Type: "bogus"}))
	rejected := readUntil(t, conn, manager.MessageError)
	assert.Contains(t, rejected.Text, "unknown message type")

	c.state("PUT", base+"/timeline", `{"sceneIds":[1,2]}`)

	markers := readUntil(t, conn, manager.MessageMarkers)
	assert.Equal(t, 10.0, markers.TotalDuration)

	load := readUntil(t, conn, manager.MessageLoad)
	assert.Equal(t, "https://example.com/1.mp4", load.URL)

	require.NoError(t, conn.WriteJSON(manager.Message{Type: manager.MessageReady, Generation: load.Generation}))
	require.NoError(t, conn.WriteJSON(manager.Message{Type: manager.MessageToggle}))

	readUntil(t, conn, manager.MessagePlay)
	playing := readUntil(t, conn, manager.MessagePlaying)
	require.NotNil(t, playing.Playing)
	assert.True(t, *playing.Playing)

	progress := readUntil(t, conn, manager.MessageProgress)
	require.NotNil(t, progress.Progress)
	assert.Equal(t, 0.0, progress.Progress.VirtualTime)

	require.NoError(t, conn.WriteJSON(manager.Message{Type: manager.MessageTimeUpdate, Generation: load.Generation, Time: 4}))
	progress = readUntil(t, conn, manager.MessageProgress)
	require.NotNil(t, progress.Progress)
	assert.Equal(t, 4.0, progress.Progress.VirtualTime)
	assert.Equal(t, "0:04", progress.Progress.FormattedTime)
}
