package models

import (
	"math"
	"time"
)

// Scene is a single video clip that can be placed on a timeline.
type Scene struct {
	ID              int       `json:"id"`
	SourceURL       string    `json:"sourceUrl"`
	DisplayName     string    `json:"displayName"`
	DurationSeconds float64   `json:"durationSeconds"`
	Color           string    `json:"color,omitempty"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

func NewScene() Scene {
	currentTime := time.Now()
	return Scene{
		CreatedAt: currentTime,
		UpdatedAt: currentTime,
	}
}

// MaxSceneDuration is the longest accepted scene, in seconds.
const MaxSceneDuration = 24 * 60 * 60

// HasValidDuration returns true if the scene duration is a finite, positive
// number of seconds no longer than MaxSceneDuration.
func (s Scene) HasValidDuration() bool {
	d := s.DurationSeconds
	return d > 0 && d <= MaxSceneDuration && !math.IsNaN(d)
}

// ScenePartial represents part of a Scene object. It is used to update
// the database entry.
type ScenePartial struct {
	SourceURL       OptionalString
	DisplayName     OptionalString
	DurationSeconds OptionalFloat64
	Color           OptionalString
	UpdatedAt       time.Time
}

func NewScenePartial() ScenePartial {
	return ScenePartial{
		UpdatedAt: time.Now(),
	}
}
