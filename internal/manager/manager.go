package manager

import (
	"context"
	"io"

	"github.com/storyreel/storyreel/internal/build"
	"github.com/storyreel/storyreel/internal/log"
	"github.com/storyreel/storyreel/internal/manager/config"
	"github.com/storyreel/storyreel/pkg/db"
	"github.com/storyreel/storyreel/pkg/ffmpeg"
	"github.com/storyreel/storyreel/pkg/logger"
	"github.com/storyreel/storyreel/pkg/models"
	"github.com/storyreel/storyreel/pkg/scene"
)

// The fields of this struct are read-only after initialization,
// i.e. the values the pointers point to may change but
// the pointers themselves will not.
type Manager struct {
	Config *config.Config
	Logger *log.Logger

	FFProbe *ffmpeg.FFProbe

	Database   *db.Database
	Repository models.Repository

	SceneService *scene.Service
	Sessions     *SessionManager
}

var instance *Manager

func GetInstance() *Manager {
	if instance == nil {
		panic("manager not initialized")
	}
	return instance
}

// ImportCatalog loads the configured catalog file into the database. The
// built-in catalog is used when no file is configured.
func (s *Manager) ImportCatalog(ctx context.Context) (*scene.ImportResult, error) {
	c := scene.DefaultCatalog()

	if path := s.Config.GetCatalogFile(); path != "" {
		var err error
		c, err = scene.LoadCatalog(path)
		if err != nil {
			return nil, err
		}
		logger.Infof("importing scene catalog from %s", path)
	} else {
		logger.Infof("importing default scene catalog")
	}

	return s.SceneService.Import(ctx, c)
}

// ExportCatalog writes all scenes in the database to w as a catalog file.
func (s *Manager) ExportCatalog(ctx context.Context, w io.Writer) error {
	scenes, err := s.SceneService.All(ctx)
	if err != nil {
		return err
	}
	return scene.WriteCatalog(w, scenes)
}

// RefreshFFProbe locates ffprobe again, for use after the configured path
// changes.
func (s *Manager) RefreshFFProbe() {
	s.FFProbe.Configure(findFFProbe(s.Config))
	if s.FFProbe.Path() == "" {
		logger.Warnf("ffprobe not found: scenes without a duration cannot be imported")
	} else {
		logger.Debugf("using ffprobe: %s", s.FFProbe.Path())
	}
}

// Shutdown closes the preview sessions and the database.
func (s *Manager) Shutdown() {
	s.Sessions.Close()

	if err := s.Database.Close(); err != nil {
		logger.Errorf("error closing database: %v", err)
	}
}

func (s *Manager) GetSystemStatus() *models.SystemStatus {
	database := s.Database
	status := models.SystemStatusEnumOk
	if s.FFProbe.Path() == "" {
		status = models.SystemStatusEnumNoFFProbe
	}

	return &models.SystemStatus{
		DatabaseSchema: int(database.Version()),
		DatabasePath:   database.DatabasePath(),
		AppSchema:      int(database.AppSchemaVersion()),
		ConfigPath:     s.Config.GetConfigFile(),
		FFProbePath:    s.FFProbe.Path(),
		Version:        build.VersionString(),
		Sessions:       s.Sessions.Len(),
		Status:         status,
	}
}
