package manager

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyreel/storyreel/pkg/models"
	"github.com/storyreel/storyreel/pkg/playback"
	"github.com/storyreel/storyreel/pkg/timeline"
)

type fakeTransport struct {
	mutex    sync.Mutex
	messages []Message
	err      error
}

func (t *fakeTransport) Send(m Message) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.err != nil {
		return t.err
	}
	t.messages = append(t.messages, m)
	return nil
}

func (t *fakeTransport) sent() []Message {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return append([]Message(nil), t.messages...)
}

func (t *fakeTransport) types() []MessageType {
	var ret []MessageType
	for _, m := range t.sent() {
		ret = append(ret, m.Type)
	}
	return ret
}

// lastOfType returns the most recent message of type mt.
func (t *fakeTransport) lastOfType(mt MessageType) (Message, bool) {
	msgs := t.sent()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == mt {
			return msgs[i], true
		}
	}
	return Message{}, false
}

func (t *fakeTransport) reset() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.messages = nil
}

func testScene(id int, name string) models.Scene {
	return models.Scene{
		ID:              id,
		SourceURL:       "https://example.com/" + name + ".mp4",
		DisplayName:     name,
		DurationSeconds: 5,
	}
}

func abcScenes() []models.Scene {
	return []models.Scene{testScene(1, "a"), testScene(2, "b"), testScene(3, "c")}
}

func newTestSession(t *testing.T) (*Session, *fakeTransport) {
	t.Helper()

	s := newSession("test", playback.NewView(playback.DefaultPixelsPerSecond))
	t.Cleanup(s.Close)

	tr := &fakeTransport{}
	detach, err := s.Attach(context.Background(), tr)
	require.NoError(t, err)
	t.Cleanup(detach)

	return s, tr
}

// sendReady reports the most recently loaded source as ready.
func sendReady(t *testing.T, s *Session, tr *fakeTransport) {
	t.Helper()
	load, ok := tr.lastOfType(MessageLoad)
	require.True(t, ok, "no load message sent")
	require.NoError(t, s.HandleMessage(context.Background(), Message{Type: MessageReady, Generation: load.Generation}))
}

func TestSession_Edits(t *testing.T) {
	ctx := context.Background()
	s, tr := newTestSession(t)

	assert.Equal(t, []MessageType{MessageState}, tr.types())

	state, err := s.SetTimeline(ctx, abcScenes())
	require.NoError(t, err)
	assert.Equal(t, 15.0, state.TotalDuration)
	assert.Equal(t, playback.StatusLoading, state.Status)
	assert.Len(t, state.Markers, 15)

	load, ok := tr.lastOfType(MessageLoad)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a.mp4", load.URL)

	state, err = s.Append(ctx, testScene(4, "d"))
	require.NoError(t, err)
	assert.Equal(t, 20.0, state.TotalDuration)

	state, err = s.Move(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, state.Scenes, 4)
	assert.Equal(t, "d", state.Scenes[0].DisplayName)

	state, err = s.Insert(ctx, 1, testScene(5, "e"))
	require.NoError(t, err)
	assert.Equal(t, "e", state.Scenes[1].DisplayName)

	state, err = s.Remove(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "e", state.Scenes[0].DisplayName)
	assert.Equal(t, 20.0, state.TotalDuration)

	_, err = s.Remove(ctx, 10)
	assert.True(t, errors.Is(err, timeline.ErrIndexOutOfRange))

	bad := testScene(6, "bad")
	bad.DurationSeconds = 0
	_, err = s.Append(ctx, bad)
	assert.True(t, errors.Is(err, timeline.ErrInvalidDuration))

	huge := testScene(7, "huge")
	huge.DurationSeconds = 1e300
	_, err = s.Append(ctx, huge)
	assert.True(t, errors.Is(err, timeline.ErrInvalidDuration))

	// rejected edits leave the timeline untouched
	state, err = s.State(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Scenes, 4)
}

func TestSession_EditWhilePlaying(t *testing.T) {
	ctx := context.Background()
	s, tr := newTestSession(t)

	_, err := s.SetTimeline(ctx, abcScenes())
	require.NoError(t, err)
	sendReady(t, s, tr)

	state, err := s.Dispatch(ctx, playback.TogglePlayPause{})
	require.NoError(t, err)
	assert.Equal(t, playback.StatusPlaying, state.Status)
	assert.True(t, state.Playing)

	_, err = s.Append(ctx, testScene(4, "d"))
	assert.True(t, errors.Is(err, ErrTimelineLocked))

	_, err = s.SetTimeline(ctx, nil)
	assert.True(t, errors.Is(err, ErrTimelineLocked))

	state, err = s.Dispatch(ctx, playback.TogglePlayPause{})
	require.NoError(t, err)
	assert.False(t, state.Playing)

	state, err = s.Append(ctx, testScene(4, "d"))
	require.NoError(t, err)
	assert.Len(t, state.Scenes, 4)
}

func TestSession_PlayerEvents(t *testing.T) {
	ctx := context.Background()
	s, tr := newTestSession(t)

	_, err := s.SetTimeline(ctx, abcScenes())
	require.NoError(t, err)
	load, _ := tr.lastOfType(MessageLoad)
	sendReady(t, s, tr)

	_, err = s.Dispatch(ctx, playback.TogglePlayPause{})
	require.NoError(t, err)

	require.NoError(t, s.HandleMessage(ctx, Message{Type: MessageTimeUpdate, Generation: load.Generation, Time: 2.5}))

	state, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.5, state.VirtualTime)
	assert.Equal(t, "0:02", state.FormattedTime)

	progress, ok := tr.lastOfType(MessageProgress)
	require.True(t, ok)
	require.NotNil(t, progress.Progress)
	assert.InDelta(t, 2.5/15, progress.Progress.Fraction, 1e-9)

	// events from an older load are ignored
	require.NoError(t, s.HandleMessage(ctx, Message{Type: MessageTimeUpdate, Generation: load.Generation - 1, Time: 4}))
	state, err = s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.5, state.VirtualTime)

	tr.reset()
	require.NoError(t, s.HandleMessage(ctx, Message{Type: MessageEnded, Generation: load.Generation}))
	state, err = s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.SceneIndex)
	assert.Equal(t, 5.0, state.VirtualTime)
	assert.Equal(t, playback.StatusPlaying, state.Status)

	next, ok := tr.lastOfType(MessageLoad)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/b.mp4", next.URL)
	assert.Greater(t, next.Generation, load.Generation)
	assert.Contains(t, tr.types(), MessagePlay)
}

// The browser echoes the generation of the last load or seek it received.
func TestSession_SeekWithinLoadedScene(t *testing.T) {
	ctx := context.Background()
	s, tr := newTestSession(t)

	_, err := s.SetTimeline(ctx, abcScenes())
	require.NoError(t, err)
	load, _ := tr.lastOfType(MessageLoad)
	sendReady(t, s, tr)

	_, err = s.Dispatch(ctx, playback.TogglePlayPause{})
	require.NoError(t, err)

	tr.reset()
	require.NoError(t, s.HandleMessage(ctx, Message{Type: MessageSeekTo, Time: 2}))

	// same source, so only a seek is sent
	assert.NotContains(t, tr.types(), MessageLoad)
	seek, ok := tr.lastOfType(MessageSeek)
	require.True(t, ok)
	assert.Equal(t, 2.0, seek.Time)
	assert.Greater(t, seek.Generation, load.Generation)

	require.NoError(t, s.HandleMessage(ctx, Message{Type: MessageTimeUpdate, Generation: seek.Generation, Time: 3}))
	state, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.0, state.VirtualTime)
	assert.Equal(t, playback.StatusPlaying, state.Status)

	// updates still tagged with the load's generation predate the seek
	require.NoError(t, s.HandleMessage(ctx, Message{Type: MessageTimeUpdate, Generation: load.Generation, Time: 4.5}))
	state, err = s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.0, state.VirtualTime)

	tr.reset()
	require.NoError(t, s.HandleMessage(ctx, Message{Type: MessageEnded, Generation: seek.Generation}))
	state, err = s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.SceneIndex)
	assert.Equal(t, 5.0, state.VirtualTime)

	next, ok := tr.lastOfType(MessageLoad)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/b.mp4", next.URL)
}

func TestSession_RecoversFromPanic(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)

	err := s.do(ctx, func() error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	// the session goroutine is still serving requests
	state, err := s.SetTimeline(ctx, abcScenes())
	require.NoError(t, err)
	assert.Equal(t, 15.0, state.TotalDuration)
}

func TestSession_LoadError(t *testing.T) {
	ctx := context.Background()
	s, tr := newTestSession(t)

	_, err := s.SetTimeline(ctx, abcScenes())
	require.NoError(t, err)
	load, _ := tr.lastOfType(MessageLoad)

	require.NoError(t, s.HandleMessage(ctx, Message{
		Type:       MessageLoadError,
		Generation: load.Generation,
		URL:        load.URL,
		Text:       "network error",
	}))

	state, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, playback.StatusPaused, state.Status)

	msg, ok := tr.lastOfType(MessageError)
	require.True(t, ok)
	require.NotNil(t, msg.Error)
	assert.Equal(t, 0, msg.Error.SceneIndex)
	assert.Equal(t, load.URL, msg.Error.URL)
}

func TestSession_HandleMessage(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)

	err := s.HandleMessage(ctx, Message{Type: "bogus"})
	assert.True(t, errors.Is(err, ErrUnknownMessage))

	err = s.HandleMessage(ctx, Message{Type: MessageToggle})
	assert.True(t, errors.Is(err, timeline.ErrEmptyTimeline))

	_, err = s.SetTimeline(ctx, abcScenes())
	require.NoError(t, err)

	require.NoError(t, s.HandleMessage(ctx, Message{Type: MessageSeekTo, Time: 7}))
	state, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.SceneIndex)
	assert.Equal(t, 7.0, state.VirtualTime)

	require.NoError(t, s.HandleMessage(ctx, Message{Type: MessageMarker, Time: 12}))
	state, err = s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, state.SceneIndex)

	err = s.HandleMessage(ctx, Message{Type: MessageSeekTo, Time: 15})
	assert.True(t, errors.Is(err, timeline.ErrOutOfRange))

	require.NoError(t, s.HandleMessage(ctx, Message{Type: MessageZoom, Value: 100}))
	state, err = s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, state.View.PixelsPerSecond)
}

func TestSession_AttachResync(t *testing.T) {
	ctx := context.Background()
	s, tr := newTestSession(t)

	_, err := s.SetTimeline(ctx, abcScenes())
	require.NoError(t, err)
	sendReady(t, s, tr)

	_, err = s.Dispatch(ctx, playback.SeekTo{Time: 7})
	require.NoError(t, err)
	sendReady(t, s, tr)

	state, err := s.Dispatch(ctx, playback.TogglePlayPause{})
	require.NoError(t, err)
	require.Equal(t, playback.StatusPlaying, state.Status)

	other := &fakeTransport{}
	detach, err := s.Attach(ctx, other)
	require.NoError(t, err)
	defer detach()

	msgs := other.sent()
	require.Len(t, msgs, 4)
	assert.Equal(t, MessageState, msgs[0].Type)
	require.NotNil(t, msgs[0].State)
	assert.Equal(t, 1, msgs[0].State.SceneIndex)

	assert.Equal(t, MessageLoad, msgs[1].Type)
	assert.Equal(t, "https://example.com/b.mp4", msgs[1].URL)
	assert.Equal(t, MessageSeek, msgs[2].Type)
	assert.Equal(t, 2.0, msgs[2].Time)
	assert.Equal(t, msgs[1].Generation, msgs[2].Generation)
	assert.Equal(t, MessagePlay, msgs[3].Type)

	// the previous transport no longer receives messages
	tr.reset()
	_, err = s.Dispatch(ctx, playback.TogglePlayPause{})
	require.NoError(t, err)
	assert.Empty(t, tr.sent())
	assert.Contains(t, other.types(), MessagePause)
}

func TestSession_AttachFails(t *testing.T) {
	s := newSession("test", playback.NewView(playback.DefaultPixelsPerSecond))
	defer s.Close()

	sendErr := errors.New("broken pipe")
	_, err := s.Attach(context.Background(), &fakeTransport{err: sendErr})
	assert.True(t, errors.Is(err, sendErr))

	// commands are dropped while detached
	_, err = s.SetTimeline(context.Background(), abcScenes())
	assert.NoError(t, err)
}

func TestSession_Closed(t *testing.T) {
	s := newSession("test", playback.NewView(playback.DefaultPixelsPerSecond))
	s.Close()
	s.Close()

	_, err := s.State(context.Background())
	assert.True(t, errors.Is(err, ErrSessionClosed))

	_, err = s.Append(context.Background(), testScene(1, "a"))
	assert.True(t, errors.Is(err, ErrSessionClosed))
}

func TestSessionManager(t *testing.T) {
	m, err := NewSessionManager(2, 80)
	require.NoError(t, err)
	defer m.Close()

	first := m.Create()
	second := m.Create()
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, m.Len())

	got, err := m.Get(first.ID)
	require.NoError(t, err)
	assert.Same(t, first, got)

	state, err := first.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 80.0, state.View.PixelsPerSecond)

	// second is now the least recently used and is evicted
	third := m.Create()
	assert.Equal(t, 2, m.Len())

	_, err = m.Get(second.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	_, err = second.State(context.Background())
	assert.True(t, errors.Is(err, ErrSessionClosed))

	require.NoError(t, m.Remove(third.ID))
	_, err = third.State(context.Background())
	assert.True(t, errors.Is(err, ErrSessionClosed))

	err = m.Remove(third.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	_, err = NewSessionManager(0, 50)
	assert.Error(t, err)
}
