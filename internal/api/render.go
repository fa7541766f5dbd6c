package api

import (
	"errors"
	"net/http"

	"github.com/storyreel/storyreel/internal/manager"
	"github.com/storyreel/storyreel/pkg/logger"
	"github.com/storyreel/storyreel/pkg/models"
	"github.com/storyreel/storyreel/pkg/playback"
	"github.com/storyreel/storyreel/pkg/scene"
	"github.com/storyreel/storyreel/pkg/timeline"
)

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Errorf("[http] encoding response: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Debugf("[http] writing response: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Errorf("[http] %v", err)
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, manager.ErrSessionNotFound),
		errors.Is(err, manager.ErrSessionClosed),
		errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, manager.ErrTimelineLocked):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, manager.ErrUnknownMessage),
		errors.Is(err, scene.ErrInvalidQuery):
		return http.StatusBadRequest
	case playback.IsContractError(err),
		errors.Is(err, timeline.ErrInvalidDuration):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// decodeBody decodes the json request body into v.
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}
