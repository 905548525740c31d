// Package rest exposes the blog API over HTTP with gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/wizardry/internal/logging"
	"github.com/dmitrijs2005/wizardry/internal/server/config"
	"github.com/dmitrijs2005/wizardry/internal/server/generation"
	"github.com/dmitrijs2005/wizardry/internal/server/rate"
	"github.com/dmitrijs2005/wizardry/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// Generator drafts posts; *generation.Client implements it.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) (*generation.Draft, error)
}

// UploadSigner hands out presigned cover image uploads; *services.MediaService
// implements it.
type UploadSigner interface {
	CreateUploadURL(ctx context.Context, userID, contentType string) (*services.UploadURL, error)
}

// Pinger reports store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	config    *config.Config
	logger    logging.Logger
	users     *services.UserService
	posts     *services.PostService
	media     UploadSigner
	generator Generator
	store     Pinger
	limiter   rate.Limiter
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, ps *services.PostService,
	media UploadSigner, gen Generator, store Pinger, limiter rate.Limiter) *Server {
	return &Server{
		config:    cfg,
		logger:    l.With("module", "http_server"),
		users:     us,
		posts:     ps,
		media:     media,
		generator: gen,
		store:     store,
		limiter:   limiter,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.EndpointAddrHTTP,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-stopped
	return nil
}
