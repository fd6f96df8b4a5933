// Package server hosts the alerter behind the pub/sub push endpoint.
package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"logrouter/internal/alerter"
	"logrouter/internal/config"
	"logrouter/internal/response"
	"logrouter/internal/slack"
)

// Server holds the Echo app and dependencies.
type Server struct {
	Echo   *echo.Echo
	Config *config.Config
	logger zerolog.Logger
}

// New builds the Echo server and registers routes.
func New(cfg *config.Config, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover(), middleware.Logger())

	dispatcher := slack.NewClient(cfg.SlackURL, nil)
	a := alerter.New(dispatcher, cfg.GCPProjectName, logger)

	e.POST("/log", handleLog(a, logger))
	e.GET("/health", func(c echo.Context) error {
		return response.OK(c, map[string]any{"status": "ok"}, "")
	})

	return &Server{Echo: e, Config: cfg, logger: logger}
}

// handleLog binds the inbound event body and runs it through the alerter.
// Pipeline outcomes map to 200; classification and delivery failures map
// to 500 so the push subscription redelivers.
func handleLog(a *alerter.Alerter, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var event map[string]any
		if err := c.Bind(&event); err != nil {
			return response.BadRequest(c, "invalid JSON body", err.Error())
		}
		outcome, err := a.Process(c.Request().Context(), event)
		if err != nil {
			logger.Error().Err(err).Msg("processing failed")
			return response.InternalError(c, "processing failed", err.Error())
		}
		return response.OK(c, nil, outcome)
	}
}

// Start starts the HTTP server. Blocks until the context is cancelled or
// the server fails.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()
	addr := ":" + s.Config.Port
	err := s.Echo.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
