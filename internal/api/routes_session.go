package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/storyreel/storyreel/internal/manager"
	"github.com/storyreel/storyreel/pkg/models"
	"github.com/storyreel/storyreel/pkg/playback"
)

type key int

const (
	sessionKey key = iota + 1
)

type sessionRoutes struct {
	scenes   SceneService
	sessions *manager.SessionManager
}

func (rs sessionRoutes) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", rs.Create)

	r.Route("/{sessionId}", func(r chi.Router) {
		r.Use(rs.SessionCtx)

		r.Get("/", rs.State)
		r.Delete("/", rs.Delete)
		r.Get("/ws", rs.Preview)

		r.Put("/timeline", rs.SetTimeline)
		r.Post("/timeline/append", rs.Append)
		r.Post("/timeline/insert", rs.Insert)
		r.Post("/timeline/remove", rs.Remove)
		r.Post("/timeline/move", rs.Move)

		r.Post("/toggle", rs.Toggle)
		r.Post("/seek", rs.Seek)
		r.Post("/markers/{second}", rs.Marker)
		r.Post("/view", rs.View)
	})

	return r
}

// region Handlers

func (rs sessionRoutes) Create(w http.ResponseWriter, r *http.Request) {
	s := rs.sessions.Create()

	state, err := s.State(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, state)
}

func (rs sessionRoutes) State(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	state, err := s.State(r.Context())
	respondState(w, state, err)
}

func (rs sessionRoutes) Delete(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	if err := rs.sessions.Remove(s.ID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type timelineInput struct {
	SceneIDs []int `json:"sceneIds"`
}

// SetTimeline replaces the timeline with the given catalog scenes, in order.
func (rs sessionRoutes) SetTimeline(w http.ResponseWriter, r *http.Request) {
	var input timelineInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}

	scenes := make([]models.Scene, len(input.SceneIDs))
	for i, id := range input.SceneIDs {
		scene, err := rs.scenes.ForTimeline(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		scenes[i] = scene
	}

	s := sessionFromContext(r.Context())
	state, err := s.SetTimeline(r.Context(), scenes)
	respondState(w, state, err)
}

type sceneInput struct {
	SceneID int `json:"sceneId"`
	Index   int `json:"index"`
}

func (rs sessionRoutes) Append(w http.ResponseWriter, r *http.Request) {
	var input sceneInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}

	scene, err := rs.scenes.ForTimeline(r.Context(), input.SceneID)
	if err != nil {
		respondError(w, err)
		return
	}

	s := sessionFromContext(r.Context())
	state, err := s.Append(r.Context(), scene)
	respondState(w, state, err)
}

func (rs sessionRoutes) Insert(w http.ResponseWriter, r *http.Request) {
	var input sceneInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}

	scene, err := rs.scenes.ForTimeline(r.Context(), input.SceneID)
	if err != nil {
		respondError(w, err)
		return
	}

	s := sessionFromContext(r.Context())
	state, err := s.Insert(r.Context(), input.Index, scene)
	respondState(w, state, err)
}

func (rs sessionRoutes) Remove(w http.ResponseWriter, r *http.Request) {
	var input sceneInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}

	s := sessionFromContext(r.Context())
	state, err := s.Remove(r.Context(), input.Index)
	respondState(w, state, err)
}

type moveInput struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (rs sessionRoutes) Move(w http.ResponseWriter, r *http.Request) {
	var input moveInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}

	s := sessionFromContext(r.Context())
	state, err := s.Move(r.Context(), input.From, input.To)
	respondState(w, state, err)
}

func (rs sessionRoutes) Toggle(w http.ResponseWriter, r *http.Request) {
	rs.dispatch(w, r, playback.TogglePlayPause{})
}

// Seek moves the playhead to the virtual time given by the t parameter.
func (rs sessionRoutes) Seek(w http.ResponseWriter, r *http.Request) {
	t, err := floatQuery(r, "t")
	if err != nil {
		respondError(w, err)
		return
	}
	rs.dispatch(w, r, playback.SeekTo{Time: t})
}

func (rs sessionRoutes) Marker(w http.ResponseWriter, r *http.Request) {
	second, err := intParam(r, "second")
	if err != nil {
		respondError(w, err)
		return
	}
	rs.dispatch(w, r, playback.MarkerActivated{Second: second})
}

type viewInput struct {
	Zoom     *float64 `json:"zoom"`
	Scroll   *float64 `json:"scroll"`
	Viewport *float64 `json:"viewport"`
}

// View changes the timeline zoom, scroll position or viewport width. The
// viewport is applied first so that zoom and scroll are clamped to it.
func (rs sessionRoutes) View(w http.ResponseWriter, r *http.Request) {
	var input viewInput
	if err := decodeBody(r, &input); err != nil {
		respondError(w, err)
		return
	}

	var events []playback.Event
	if input.Viewport != nil {
		events = append(events, playback.SetViewport{Width: *input.Viewport})
	}
	if input.Zoom != nil {
		events = append(events, playback.SetZoom{PixelsPerSecond: *input.Zoom})
	}
	if input.Scroll != nil {
		events = append(events, playback.ScrollTo{Left: *input.Scroll})
	}

	rs.dispatch(w, r, events...)
}

// endregion

func (rs sessionRoutes) dispatch(w http.ResponseWriter, r *http.Request, events ...playback.Event) {
	s := sessionFromContext(r.Context())

	for _, e := range events {
		if _, err := s.Dispatch(r.Context(), e); err != nil {
			respondError(w, err)
			return
		}
	}

	state, err := s.State(r.Context())
	respondState(w, state, err)
}

func respondState(w http.ResponseWriter, state manager.SessionState, err error) {
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (rs sessionRoutes) SessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := rs.sessions.Get(chi.URLParam(r, "sessionId"))
		if err != nil {
			respondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) *manager.Session {
	return ctx.Value(sessionKey).(*manager.Session)
}
