// Package server wires the blog backend together: store, services,
// generation model and the HTTP API, and runs it until a shutdown signal.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/wizardry/internal/logging"
	"github.com/dmitrijs2005/wizardry/internal/server/config"
	"github.com/dmitrijs2005/wizardry/internal/server/generation"
	"github.com/dmitrijs2005/wizardry/internal/server/rate"
	"github.com/dmitrijs2005/wizardry/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/wizardry/internal/server/rest"
	"github.com/dmitrijs2005/wizardry/internal/server/services"
	"github.com/gin-gonic/gin"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	model   generation.Model
	limiter *rate.MemoryLimiter
	server  *rest.Server
}

// newModel is a seam for tests.
var newModel = func(ctx context.Context, cfg *config.Config) (generation.Model, error) {
	return generation.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
}

func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(out, c.LogLevel)

	if !c.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := repomanager.New(ctx, c.DatabaseDSN, c.DatabaseName)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := repos.Init(ctx); err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("db schema error: %w", err)
	}

	us, err := services.NewUserService(repos, c)
	if err != nil {
		_ = repos.Close(ctx)
		return nil, err
	}

	var model generation.Model = generation.UnavailableModel{}
	if c.GeminiAPIKey != "" {
		model, err = newModel(ctx, c)
		if err != nil {
			_ = repos.Close(ctx)
			return nil, err
		}
	} else {
		logger.Warn(ctx, "GEMINI_API_KEY is not set, /generate will fail")
	}

	limiter := rate.NewMemory(c.RateLimitMax, c.RateLimitWindow)

	server := rest.NewServer(c, logger, us,
		services.NewPostService(repos),
		services.NewMediaService(c),
		generation.NewClient(model, logger),
		repos,
		limiter,
	)

	return &App{
		config:  c,
		logger:  logger,
		repos:   repos,
		model:   model,
		limiter: limiter,
		server:  server,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runLimiterCleanup drops idle rate limiter keys once per window.
func (app *App) runLimiterCleanup(ctx context.Context) {
	ticker := time.NewTicker(app.config.RateLimitWindow)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.limiter.Cleanup()
		}
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a shutdown signal arrives, then
// releases the store and the model.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.runLimiterCleanup(ctx)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
}

func (app *App) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.repos.Close(ctx); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}
	if c, ok := app.model.(io.Closer); ok {
		if err := c.Close(); err != nil {
			app.logger.Error(ctx, "closing model", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
