package api

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/storyreel/storyreel/pkg/models"
)

type sceneRoutes struct {
	scenes SceneService
}

func (rs sceneRoutes) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", rs.Find)
	r.Get("/{sceneId}", rs.Scene)

	return r
}

// Find returns the catalog scenes matching the q parameter.
func (rs sceneRoutes) Find(w http.ResponseWriter, r *http.Request) {
	scenes, err := rs.scenes.Query(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, err)
		return
	}

	if scenes == nil {
		scenes = []*models.Scene{}
	}
	respondJSON(w, http.StatusOK, scenes)
}

func (rs sceneRoutes) Scene(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "sceneId")
	if err != nil {
		respondError(w, err)
		return
	}

	scene, err := rs.scenes.Find(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, scene)
}
