package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ignite/search-attribution/internal/config"
	"github.com/ignite/search-attribution/internal/etl"
)

// Server exposes the attribution pipeline over HTTP so runs can be triggered by
// upload or by S3 object reference instead of the CLI.
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new API server around the given job.
func NewServer(cfg config.ServerConfig, job *etl.Job) *Server {
	return &Server{
		config:  cfg,
		handler: SetupRoutes(NewHandlers(job)),
	}
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// ListenAndServe starts the HTTP server on the configured address.
func (s *Server) ListenAndServe() error {
	s.server = &http.Server{
		Addr:    s.Addr(),
		Handler: s.handler,
		// Hit files can run to hundreds of megabytes, so the read timeout is generous.
		ReadTimeout:       5 * time.Minute,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
