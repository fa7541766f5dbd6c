package manager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/storyreel/storyreel/internal/log"
	"github.com/storyreel/storyreel/internal/manager/config"
	"github.com/storyreel/storyreel/pkg/db"
	"github.com/storyreel/storyreel/pkg/ffmpeg"
	"github.com/storyreel/storyreel/pkg/logger"
	"github.com/storyreel/storyreel/pkg/scene"
)

// Only called once at startup
func Initialize() (*Manager, error) {
	ctx := context.TODO()

	cfg, err := config.Initialize()
	if err != nil {
		return nil, fmt.Errorf("initializing configuration: %w", err)
	}

	l := initLog(cfg)

	if cfgFile := cfg.GetConfigFile(); cfgFile != "" {
		logger.Infof("using config file: %s", cfgFile)
	} else {
		logger.Infof("config file not found, using defaults")
	}

	database := db.NewDatabase()
	repo := database.Repository()

	ffProbe := ffmpeg.NewFFProbe("")

	sessions, err := NewSessionManager(cfg.GetMaxSessions(), cfg.GetDefaultZoom())
	if err != nil {
		return nil, err
	}

	mgr := &Manager{
		Config: cfg,
		Logger: l,

		FFProbe: ffProbe,

		Database:   database,
		Repository: repo,

		SceneService: scene.NewService(repo, ffProbe, cfg.GetProbeParallel()),
		Sessions:     sessions,
	}

	if err := mgr.postInit(ctx); err != nil {
		return nil, err
	}

	instance = mgr
	return mgr, nil
}

func initLog(cfg *config.Config) *log.Logger {
	l := log.NewLogger()
	l.Init(cfg.GetLogFile(), cfg.GetLogOut(), cfg.GetLogLevel())
	l.SetCacheSize(cfg.GetLogCacheSize())
	logger.Logger = l

	return l
}

// postInit opens the database and loads the scene catalog.
func (s *Manager) postInit(ctx context.Context) error {
	dbPath := s.Config.GetDatabasePath()
	if err := s.Database.Open(dbPath); err != nil {
		return fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	logger.Debugf("database %s at schema version %d", s.Database.DatabasePath(), s.Database.Version())

	s.RefreshFFProbe()

	res, err := s.ImportCatalog(ctx)
	if err != nil {
		return fmt.Errorf("importing scene catalog: %w", err)
	}
	if res.Skipped > 0 {
		logger.Warnf("%d catalog scenes were skipped", res.Skipped)
	}

	return nil
}

// findFFProbe looks for ffprobe at the configured path, on $PATH, then next
// to the config file and in the default config directory.
func findFFProbe(cfg *config.Config) string {
	var dirs []string
	if cfgFile := cfg.GetConfigFile(); cfgFile != "" {
		dirs = append(dirs, filepath.Dir(cfgFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, config.DefaultConfigDirectory))
	}

	return ffmpeg.GetPath(cfg.GetFFProbePath(), dirs)
}
