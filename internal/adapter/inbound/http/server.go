package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/0xsj/overwatch-pkg/log"

	"github.com/0xsj/overwatch-profile/internal/telemetry"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string
	BodyLimit    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RouteRegistrar registers routes on the Echo instance.
type RouteRegistrar interface {
	Register(e *echo.Echo)
}

// Server is the HTTP API server.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger log.Logger
}

// NewServer builds the Echo server with recovery, request logging, metrics,
// a body limit and bearer auth on everything but the public paths.
func NewServer(logger log.Logger, metrics *telemetry.Metrics, cfg ServerConfig, auth AuthConfig, registrars ...RouteRegistrar) *Server {
	addr := cfg.Address
	if addr == "" {
		addr = ":8080"
	}
	bodyLimit := cfg.BodyLimit
	if bodyLimit == "" {
		bodyLimit = "4M"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	e.Use(metricsMiddleware(metrics))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(JWTMiddleware(auth, isPublicPath))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	for _, r := range registrars {
		if r != nil {
			r.Register(e)
		}
	}

	return &Server{
		echo:   e,
		addr:   addr,
		logger: logger,
	}
}

func isPublicPath(c echo.Context) bool {
	switch c.Request().URL.Path {
	case "/healthz", ConfirmEmailPath:
		return true
	}
	return false
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", log.String("address", s.addr))

	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets the server be driven directly by tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
