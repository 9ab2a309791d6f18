// Package echotransport is the HTTP surface: one gated media route, a
// badge short-circuit, and a deliberately uninformative everything-else.
package echotransport

import (
	"context"
	"net/http"

	"media-gate/internal/config"
	"media-gate/internal/pipeline"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	rateLimitPerSecond = 50
	rateLimitBurst     = 100
)

type Server struct {
	echo *echo.Echo
}

// NewServer wires the media route onto a fresh Echo instance. The CORS
// policy is wide open for origins but narrow for methods; this service
// only ever serves reads.
func NewServer(cfg *config.Config, p *pipeline.Pipeline) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Cookie", "c-user", "Authorization"},
	}))
	e.Use(NewRateLimiter(rateLimitPerSecond, rateLimitBurst).Middleware())

	h := &mediaHandler{pipeline: p}
	e.GET("/load/image/*", h.Load)
	e.HEAD("/load/image/*", h.Load)

	// Every unknown route answers an empty 401; the surface does not admit
	// which paths exist.
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.NoContent(http.StatusUnauthorized)
	})

	return &Server{echo: e}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
