package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arrautomation001-cmd/ARRAutomation/internal/config"
)

// HTTPServer serves the site router and drains in-flight requests on
// shutdown, bounded by the configured timeout.
type HTTPServer struct {
	engine          *gin.Engine
	logger          *zap.Logger
	shutdownTimeout time.Duration
}

// NewHTTPServer wraps the router for graceful serving.
func NewHTTPServer(router *gin.Engine, cfg config.Config, logger *zap.Logger) *HTTPServer {
	router.HandleMethodNotAllowed = true
	router.ForwardedByClientIP = true

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPServer{
		engine:          router,
		logger:          logger,
		shutdownTimeout: timeout,
	}
}

// Run starts the HTTP server on addr and shuts it down when ctx is done.
func (s *HTTPServer) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log().Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		s.log().Info("http server draining", zap.Duration("timeout", s.shutdownTimeout))
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (s *HTTPServer) log() *zap.Logger {
	if s.logger != nil {
		return s.logger
	}
	return zap.L()
}
