package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	jsoniter "github.com/json-iterator/go"

	"github.com/storyreel/storyreel/internal/log"
	"github.com/storyreel/storyreel/internal/manager"
	"github.com/storyreel/storyreel/pkg/logger"
	"github.com/storyreel/storyreel/pkg/models"
	"github.com/storyreel/storyreel/ui"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SceneService provides the scene catalog.
type SceneService interface {
	Query(ctx context.Context, q string) ([]*models.Scene, error)
	Find(ctx context.Context, id int) (*models.Scene, error)
	ForTimeline(ctx context.Context, id int) (models.Scene, error)
}

// SystemStatusProvider reports the state of the running server.
type SystemStatusProvider interface {
	GetSystemStatus() *models.SystemStatus
}

// LogCache provides recently logged entries.
type LogCache interface {
	GetLogCache() []log.LogItem
}

type Server struct {
	Scenes         SceneService
	Sessions       *manager.SessionManager
	Logs           LogCache
	System         SystemStatusProvider
	AllowedOrigins []string

	// UI serves the preview page. Not served if nil.
	UI http.Handler

	server         *http.Server
	displayAddress string
}

// Routes returns the http handler for the server.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Heartbeat("/healthz"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/scenes", sceneRoutes{scenes: s.Scenes}.Routes())
		r.Mount("/sessions", sessionRoutes{
			scenes:   s.Scenes,
			sessions: s.Sessions,
		}.Routes())

		if s.Logs != nil {
			r.Get("/logs", logRoutes{logs: s.Logs}.Logs)
		}
		if s.System != nil {
			r.Get("/system", s.systemStatus)
		}
	})

	if s.UI != nil {
		r.Handle("/*", s.UI)
	}

	return r
}

func (s *Server) systemStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.System.GetSystemStatus())
}

func (s *Server) allowedOrigins() []string {
	if len(s.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.AllowedOrigins
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Tracef("[http] %s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// Initialize creates the server from the manager's configuration.
func Initialize() (*Server, error) {
	mgr := manager.GetInstance()
	cfg := mgr.Config

	s := &Server{
		Scenes:         mgr.SceneService,
		Sessions:       mgr.Sessions,
		Logs:           mgr.Logger,
		System:         mgr,
		AllowedOrigins: cfg.GetCORSAllowedOrigins(),
		UI:             ui.UIServer,
	}

	address := net.JoinHostPort(cfg.GetHost(), strconv.Itoa(cfg.GetPort()))
	s.server = &http.Server{
		Addr:              address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 30 * time.Second,
	}

	s.displayAddress = DisplayAddress(cfg.GetHost(), cfg.GetPort())
	return s, nil
}

// Start serves the API and the preview page. It returns
// http.ErrServerClosed after Close is called.
func (s *Server) Start() error {
	logger.Infof("storyreel is listening on %s", s.server.Addr)
	logger.Infof("storyreel is running at %s", s.displayAddress)

	return s.server.ListenAndServe()
}

func (s *Server) Close() error {
	return s.server.Close()
}

// DisplayURL returns the address a browser on this machine should open.
func (s *Server) DisplayURL() string {
	return s.displayAddress
}

// DisplayAddress returns the address a browser on this machine should open.
func DisplayAddress(host string, port int) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
}
