package api

import (
	"fmt"
	"math"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/spf13/cast"
)

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func intParam(r *http.Request, name string) (int, error) {
	v, err := cast.ToIntE(chi.URLParam(r, name))
	if err != nil {
		return 0, badRequest("%s must be an integer", name)
	}
	return v, nil
}

// floatQuery returns the query parameter name as a finite number.
func floatQuery(r *http.Request, name string) (float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, badRequest("missing %s", name)
	}

	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, badRequest("%s must be a number", name)
	}
	return v, nil
}
