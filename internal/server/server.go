package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/BloggingApp/posts-service/internal/config"
)

type Server struct {
	mu         sync.Mutex
	httpServer *http.Server
}

func New() *Server {
	return &Server{}
}

// Run blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Run(cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        cfg.Handler,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
