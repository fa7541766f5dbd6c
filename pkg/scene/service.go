// Package scene manages the catalog of scenes available to timelines.
package scene

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"sync"
	"time"

	"github.com/remeh/sizedwaitgroup"

	"github.com/storyreel/storyreel/pkg/logger"
	"github.com/storyreel/storyreel/pkg/models"
)

// Prober determines the duration of a video source.
type Prober interface {
	Duration(ctx context.Context, url string) (float64, error)
}

type Service struct {
	Repository models.Repository
	Prober     Prober

	// ProbeParallel is the number of sources probed at once during import.
	ProbeParallel int

	rndMutex sync.Mutex
	rnd      *rand.Rand
}

func NewService(repo models.Repository, prober Prober, probeParallel int) *Service {
	return &Service{
		Repository:    repo,
		Prober:        prober,
		ProbeParallel: probeParallel,
		rnd:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ImportResult summarises a catalog import.
type ImportResult struct {
	Created int
	Updated int
	Skipped int
}

// Import stores the catalog entries, probing any without a duration.
// Entries are matched to existing scenes by source URL. Entries whose
// duration cannot be determined are skipped.
func (s *Service) Import(ctx context.Context, c Catalog) (*ImportResult, error) {
	scenes := make([]models.Scene, len(c.Scenes))
	for i, e := range c.Scenes {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("scene %d: %w", i, err)
		}
		scenes[i] = e.toScene()
	}

	s.probeMissing(ctx, scenes)

	ret := &ImportResult{}
	if err := s.Repository.WithTxn(ctx, func(ctx context.Context) error {
		for i := range scenes {
			sc := &scenes[i]
			if !sc.HasValidDuration() {
				logger.Warnf("[scene] skipping %s: unknown duration", sc.SourceURL)
				ret.Skipped++
				continue
			}

			existing, err := s.Repository.Scene.FindBySourceURL(ctx, sc.SourceURL)
			if err != nil {
				return err
			}

			if existing == nil {
				s.ensureColor(sc)
				if err := s.Repository.Scene.Create(ctx, sc); err != nil {
					return fmt.Errorf("creating scene %s: %w", sc.SourceURL, err)
				}
				ret.Created++
				continue
			}

			partial := models.NewScenePartial()
			partial.DisplayName = models.NewOptionalString(sc.DisplayName)
			partial.DurationSeconds = models.NewOptionalFloat64(sc.DurationSeconds)
			if sc.Color != "" {
				partial.Color = models.NewOptionalString(sc.Color)
			}
			if _, err := s.Repository.Scene.UpdatePartial(ctx, existing.ID, partial); err != nil {
				return fmt.Errorf("updating scene %s: %w", sc.SourceURL, err)
			}
			ret.Updated++
		}
		return nil
	}); err != nil {
		return nil, err
	}

	logger.Infof("[scene] imported catalog: %d created, %d updated, %d skipped", ret.Created, ret.Updated, ret.Skipped)
	return ret, nil
}

func (s *Service) probeMissing(ctx context.Context, scenes []models.Scene) {
	if s.Prober == nil {
		return
	}

	parallel := s.ProbeParallel
	if parallel <= 0 {
		parallel = 1
	}

	wg := sizedwaitgroup.New(parallel)
	for i := range scenes {
		if scenes[i].DurationSeconds > 0 {
			continue
		}

		wg.Add()
		go func(sc *models.Scene) {
			defer wg.Done()

			d, err := s.Prober.Duration(ctx, sc.SourceURL)
			if err != nil {
				logger.Warnf("[scene] probing %s: %v", sc.SourceURL, err)
				return
			}
			sc.DurationSeconds = d
		}(&scenes[i])
	}
	wg.Wait()
}

func (s *Service) ensureColor(sc *models.Scene) {
	s.rndMutex.Lock()
	defer s.rndMutex.Unlock()

	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	EnsureColor(sc, s.rnd)
}

// ErrInvalidQuery is returned when a query is not a valid regular
// expression.
var ErrInvalidQuery = errors.New("invalid scene query")

// Query returns the catalog scenes whose name matches the regular
// expression q, ignoring case.
func (s *Service) Query(ctx context.Context, q string) ([]*models.Scene, error) {
	if _, err := regexp.Compile(q); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	var ret []*models.Scene
	if err := s.Repository.WithReadTxn(ctx, func(ctx context.Context) error {
		var err error
		ret, err = s.Repository.Scene.Query(ctx, q)
		return err
	}); err != nil {
		return nil, err
	}

	return ret, nil
}

// Find returns the scene with the given id, or models.ErrNotFound.
func (s *Service) Find(ctx context.Context, id int) (*models.Scene, error) {
	var ret *models.Scene
	if err := s.Repository.WithReadTxn(ctx, func(ctx context.Context) error {
		var err error
		ret, err = s.Repository.Scene.Find(ctx, id)
		return err
	}); err != nil {
		return nil, err
	}

	if ret == nil {
		return nil, fmt.Errorf("scene %d: %w", id, models.ErrNotFound)
	}

	return ret, nil
}

// ForTimeline returns a copy of the scene with the given id, ready to be
// placed on a timeline. Scenes without a colour are given one.
func (s *Service) ForTimeline(ctx context.Context, id int) (models.Scene, error) {
	found, err := s.Find(ctx, id)
	if err != nil {
		return models.Scene{}, err
	}

	ret := *found
	s.ensureColor(&ret)
	return ret, nil
}

// All returns every catalog scene.
func (s *Service) All(ctx context.Context) ([]*models.Scene, error) {
	return s.Query(ctx, "")
}
