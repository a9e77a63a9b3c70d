// Package server exposes the rules engine and live sessions over a JSON HTTP
// API built on echo.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hailam/tensorchess/internal/engine"
	"github.com/hailam/tensorchess/internal/session"
	"github.com/hailam/tensorchess/internal/storage"
)

// SettingsStore persists the explorer's display preferences.
type SettingsStore interface {
	LoadSettings() (*storage.Settings, error)
	SaveSettings(*storage.Settings) error
}

// Server is the HTTP front end.
type Server struct {
	echo     *echo.Echo
	sessions *session.Manager
	settings SettingsStore
	analyzer *engine.Analyzer
}

// Options configures a Server.
type Options struct {
	Sessions *session.Manager
	// Settings may be nil, in which case defaults are served and updates
	// are not persisted.
	Settings SettingsStore
	// MaxCandidates caps the ranked replies reported by /api/analyze.
	MaxCandidates int
	// RequestLog enables the echo request logger.
	RequestLog bool
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewManager(nil)
	}

	s := &Server{
		echo:     echo.New(),
		sessions: sessions,
		settings: opts.Settings,
		analyzer: engine.NewAnalyzer(opts.MaxCandidates),
	}
	s.analyzer.Cache = sessions.Cache()
	s.analyzer.OnAnalysis = func(a engine.Analysis) {
		log.WithFields(log.Fields{
			"fen":        a.FEN,
			"candidates": a.Summary.Count,
			"score":      a.Evaluation.Score,
		}).Debug("analysis")
	}

	e := s.echo
	e.HideBanner = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler(e)

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	if opts.RequestLog {
		e.Use(middleware.Logger())
	}

	s.routes()
	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the listener, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	api.POST("/legal", s.legal)
	api.POST("/move", s.move)
	api.POST("/evaluate", s.evaluate)
	api.POST("/analyze", s.analyze)
	api.POST("/attacks", s.attacks)
	api.POST("/king", s.king)
	api.POST("/status", s.status)
	api.GET("/scenarios", s.scenarios)

	api.POST("/sessions", s.createSession)
	api.GET("/sessions", s.listSessions)
	api.GET("/sessions/:id", s.getSession)
	api.DELETE("/sessions/:id", s.deleteSession)
	api.POST("/sessions/:id/move", s.sessionMove)
	api.POST("/sessions/:id/preview", s.sessionPreview)
	api.POST("/sessions/:id/auto", s.sessionAuto)
	api.POST("/sessions/:id/undo", s.sessionUndo)
	api.POST("/sessions/:id/load", s.sessionLoad)
	api.PUT("/sessions/:id/autoreply", s.sessionAutoReply)
	api.GET("/sessions/:id/heat", s.sessionHeat)
	api.GET("/sessions/:id/log", s.sessionLog)
	api.GET("/sessions/:id/snapshot.png", s.sessionSnapshot)

	api.GET("/settings", s.getSettings)
	api.PUT("/settings", s.putSettings)
}

func (s *Server) loadSettings() (*storage.Settings, error) {
	if s.settings == nil {
		return storage.DefaultSettings(), nil
	}
	return s.settings.LoadSettings()
}

func (s *Server) getSettings(c echo.Context) error {
	settings, err := s.loadSettings()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func (s *Server) putSettings(c echo.Context) error {
	settings, err := s.loadSettings()
	if err != nil {
		return err
	}
	if err := c.Bind(settings); err != nil {
		return err
	}
	settings.Normalize()
	if s.settings != nil {
		if err := s.settings.SaveSettings(settings); err != nil {
			return err
		}
	}
	log.WithField("heatBaseScale", settings.HeatBaseScale).Info("settings saved")
	return c.JSON(http.StatusOK, settings)
}
