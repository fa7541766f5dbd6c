package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/storyreel/storyreel/pkg/logger"
	"github.com/storyreel/storyreel/pkg/models"
	"github.com/storyreel/storyreel/pkg/playback"
	"github.com/storyreel/storyreel/pkg/timeline"
)

var (
	ErrSessionNotFound = errors.New("preview session not found")
	ErrSessionClosed   = errors.New("preview session closed")
	ErrTimelineLocked  = errors.New("timeline cannot be edited while playing")
	ErrUnknownMessage  = errors.New("unknown message type")
)

const sessionQueueSize = 64

// SessionState is a snapshot of a preview session.
type SessionState struct {
	ID     string         `json:"id"`
	Scenes []models.Scene `json:"scenes"`
	playback.Snapshot
}

// Session is one browser preview: a timeline, the playback controller
// driving it and the remote player in the browser. All access to the
// controller happens on the session's own goroutine.
type Session struct {
	ID      string
	Created time.Time

	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once

	player      *remotePlayer
	controller  *playback.Controller
	unsubscribe func()
}

func newSession(id string, view playback.View) *Session {
	s := &Session{
		ID:      id,
		Created: time.Now(),
		queue:   make(chan func(), sessionQueueSize),
		done:    make(chan struct{}),
		player:  newRemotePlayer(),
	}

	s.controller = playback.NewController(s.player, s, view)
	s.unsubscribe = s.controller.Listen(func(e playback.Event) {
		s.post(func() {
			if err := s.controller.Handle(e); err != nil {
				logger.Debugf("[session %s] %s: %v", s.ID, playback.EventName(e), err)
			}
		})
	})

	go s.run()

	return s
}

func (s *Session) run() {
	for {
		select {
		case fn := <-s.queue:
			s.exec(fn)
		case <-s.done:
			return
		}
	}
}

// exec runs fn, logging a panic instead of letting it stop the server.
func (s *Session) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[session %s] panic: %v", s.ID, r)
		}
	}()
	fn()
}

// do runs fn on the session goroutine and waits for it to finish. A panic in
// fn is returned as an error.
func (s *Session) do(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)

	call := func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("session %s: panic: %v", s.ID, r)
				panic(r)
			}
		}()
		errCh <- fn()
	}

	select {
	case s.queue <- call:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-errCh:
		return err
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues fn to run on the session goroutine without waiting.
func (s *Session) post(fn func()) {
	select {
	case s.queue <- fn:
	case <-s.done:
	}
}

// Close stops the session. Pending operations fail with ErrSessionClosed.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		close(s.done)
		logger.Debugf("[session %s] closed", s.ID)
	})
}

func (s *Session) snapshot() SessionState {
	state := s.controller.State()
	return SessionState{
		ID:       s.ID,
		Scenes:   state.Timeline.Scenes(),
		Snapshot: state.Snapshot(),
	}
}

// State returns a snapshot of the session.
func (s *Session) State(ctx context.Context) (SessionState, error) {
	var ret SessionState
	err := s.do(ctx, func() error {
		ret = s.snapshot()
		return nil
	})
	return ret, err
}

// edit replaces the timeline with the result of fn. Edits are rejected while
// the preview is playing.
func (s *Session) edit(ctx context.Context, fn func(scenes []models.Scene) ([]models.Scene, error)) (SessionState, error) {
	var ret SessionState
	err := s.do(ctx, func() error {
		if s.controller.State().IsPlaying() {
			return ErrTimelineLocked
		}

		scenes, err := fn(s.controller.Timeline().Scenes())
		if err != nil {
			return err
		}

		tl, err := timeline.New(scenes)
		if err != nil {
			return err
		}

		if err := s.controller.SetTimeline(tl); err != nil {
			return err
		}

		ret = s.snapshot()
		return nil
	})
	return ret, err
}

// SetTimeline replaces the whole scene list.
func (s *Session) SetTimeline(ctx context.Context, scenes []models.Scene) (SessionState, error) {
	return s.edit(ctx, func([]models.Scene) ([]models.Scene, error) {
		return scenes, nil
	})
}

func (s *Session) Append(ctx context.Context, scene models.Scene) (SessionState, error) {
	return s.edit(ctx, func(scenes []models.Scene) ([]models.Scene, error) {
		return timeline.Append(scenes, scene), nil
	})
}

func (s *Session) Insert(ctx context.Context, index int, scene models.Scene) (SessionState, error) {
	return s.edit(ctx, func(scenes []models.Scene) ([]models.Scene, error) {
		return timeline.Insert(scenes, index, scene), nil
	})
}

func (s *Session) Remove(ctx context.Context, index int) (SessionState, error) {
	return s.edit(ctx, func(scenes []models.Scene) ([]models.Scene, error) {
		return timeline.Remove(scenes, index)
	})
}

func (s *Session) Move(ctx context.Context, from, to int) (SessionState, error) {
	return s.edit(ctx, func(scenes []models.Scene) ([]models.Scene, error) {
		return timeline.Move(scenes, from, to), nil
	})
}

// Dispatch applies a user event such as a seek or play/pause toggle.
func (s *Session) Dispatch(ctx context.Context, e playback.Event) (SessionState, error) {
	var ret SessionState
	err := s.do(ctx, func() error {
		if err := s.controller.Handle(e); err != nil {
			return fmt.Errorf("%s: %w", playback.EventName(e), err)
		}
		ret = s.snapshot()
		return nil
	})
	return ret, err
}

// Attach connects a browser preview. The browser is sent the current state
// and, if a source is loaded, the commands needed to load and position it.
// The returned function detaches the transport.
func (s *Session) Attach(ctx context.Context, t Transport) (func(), error) {
	err := s.do(ctx, func() error {
		s.player.attach(t)

		state := s.snapshot()
		if err := t.Send(Message{Type: MessageState, State: &state}); err != nil {
			return err
		}

		ps := s.controller.State()
		if ps.LoadedURL == "" {
			return nil
		}

		bounds, err := ps.Timeline.SceneBounds(ps.SceneIndex)
		if err != nil {
			return nil
		}

		resync := []playback.Command{
			playback.Load{URL: ps.LoadedURL, Generation: ps.Generation},
			playback.Seek{LocalTime: ps.VirtualTime - bounds.Start, Generation: ps.Generation},
		}
		if ps.Status == playback.StatusPlaying {
			resync = append(resync, playback.Play{})
		}
		for _, c := range resync {
			if err := t.Send(commandMessage(c)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.player.detach(t)
		return nil, err
	}

	return func() {
		s.player.detach(t)
	}, nil
}

// HandleMessage processes a message received from the browser. Player
// events are queued; user events are applied and their errors returned.
func (s *Session) HandleMessage(ctx context.Context, m Message) error {
	if e, ok := playerEvent(m); ok {
		s.player.emit(e)
		return nil
	}

	e, err := userEvent(m)
	if err != nil {
		return err
	}

	_, err = s.Dispatch(ctx, e)
	return err
}

// playback.Observer

func (s *Session) notify(m Message) {
	if err := s.player.send(m); err != nil {
		logger.Debugf("[session %s] sending %s: %v", s.ID, m.Type, err)
	}
}

func (s *Session) PlayingChanged(playing bool) {
	s.notify(Message{Type: MessagePlaying, Playing: &playing})
}

func (s *Session) ProgressChanged(p playback.Progress) {
	s.notify(Message{Type: MessageProgress, Progress: &p})
}

func (s *Session) MarkersChanged(markers []int, totalDuration float64) {
	s.notify(Message{Type: MessageMarkers, Markers: markers, TotalDuration: totalDuration})
}

func (s *Session) ViewChanged(v playback.View) {
	s.notify(Message{Type: MessageView, View: &v})
}

func (s *Session) PlaybackError(err *playback.PlaybackError) {
	s.notify(Message{Type: MessageError, Error: err})
}
