// Package app wires the round server together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/store"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	logger *logrus.Logger
	config *config.Config
	router *http.ServeMux
	store  *store.Store
	tokens *config.Tokens
	ws     *config.WebSocket
}

func New(logger *logrus.Logger, cfg *config.Config) (*App, error) {
	tokens, err := config.NewTokens(cfg.Token)
	if err != nil {
		return nil, err
	}
	if cfg.Token.Secret == "" {
		logger.Warn("token.secret is not set, round tokens will not survive a restart")
	}

	app := &App{
		logger: logger,
		config: cfg,
		router: http.NewServeMux(),
		store:  store.New(logger, cfg.Session.TTL, cfg.Session.CleanupInterval),
		tokens: tokens,
		ws:     config.NewWebSocket(cfg.Cors),
	}
	app.loadRoutes()

	return app, nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Auth(a.logger, a.tokens),
		middleware.Logging(a.logger),
		middleware.Cors(a.config.Cors.AllowedOrigins),
	)
}

// Start serves until ctx is done, then shuts the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	defer a.store.Close()

	listener, err := net.Listen("tcp", a.config.Addr)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", a.config.Addr, err)
	}

	server := &http.Server{
		Handler:     a.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	a.logger.Infof("ready to serve @ %s", listener.Addr())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
