package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"readq/internal/config"
	"readq/internal/httpapi"
	"readq/internal/logging"
	"readq/internal/readinglist"
)

type apiServer struct {
	bind            string
	shutdownTimeout time.Duration
	logger          *slog.Logger
	server          *http.Server

	mu       sync.Mutex
	listener net.Listener
}

func newAPIServer(cfg *config.Config, svc *readinglist.Service, logger *slog.Logger) *apiServer {
	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &apiServer{
		bind:            strings.TrimSpace(cfg.Paths.APIBind),
		shutdownTimeout: timeout,
		logger:          logger,
		server: &http.Server{
			Handler:           httpapi.NewRouter(cfg, svc, logger),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("api listen: no bind address configured")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.stop()
	}()
	return nil
}

func (s *apiServer) stop() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *apiServer) address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
