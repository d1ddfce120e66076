// Package http serves the prediction API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"placementapi/config"
)

type Options struct {
	Predictor Predictor
	// History is optional.
	History PredictionRecorder
	// Metrics defaults to a fresh registry.
	Metrics *Metrics
	// MetricsPath exposes Metrics when not empty.
	MetricsPath string
	Logger      *zap.Logger
}

type Server struct {
	server *http.Server
	engine *gin.Engine
	config config.ServerConfig
	log    *zap.Logger
}

func NewServer(cfg config.ServerConfig, opts Options) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	engine := gin.New()
	engine.Use(
		RecoveryMiddleware(log),
		RequestIDMiddleware(),
		LoggerMiddleware(log),
		SecurityHeadersMiddleware(),
	)
	engine.Use(CORSMiddleware(cfg.AllowedOrigins)...)
	engine.HandleMethodNotAllowed = true

	h := NewHandlers(opts.Predictor, opts.History, metrics, log)
	h.Register(engine)
	if opts.MetricsPath != "" {
		engine.GET(opts.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	return &Server{
		server: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  120 * time.Second,
		},
		engine: engine,
		config: cfg,
		log:    log,
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks until the server stops. It returns nil after Stop.
func (s *Server) Start() error {
	s.log.Info("starting http server", zap.String("addr", s.server.Addr), zap.Strings("allowed_origins", s.config.AllowedOrigins))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "server failed")
	}
	return nil
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.log.Info("shutting down http server")

	if err := s.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	return nil
}

func (s *Server) Addr() string {
	return s.server.Addr
}
