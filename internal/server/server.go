package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New builds the router with the global middleware chain and all routes.
func New(cfg *config.Config, deps api.Dependencies) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSOrigins),
	)
	api.RegisterRoutes(router, deps)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the server is shut down. It returns nil after a
// graceful shutdown.
func (s *Server) Start() error {
	logging.Info("starting server", map[string]interface{}{"addr": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
