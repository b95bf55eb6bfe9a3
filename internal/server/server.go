// Package server wires the Echo instance: middleware, JWT auth and the API handlers.
package server

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/startupsetu/setu/internal/auth"
	"github.com/startupsetu/setu/internal/config"
	"github.com/startupsetu/setu/internal/handlers"
	"github.com/startupsetu/setu/internal/logger"
)

// Server is the HTTP server (Echo) with JWT middleware and registered handlers.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *slog.Logger
}

// Handler registers routes on the Echo instance.
type Handler interface {
	Register(e *echo.Echo)
}

// Options holds the HTTP settings that are not routes.
type Options struct {
	CORSOrigins []string
	BodyLimit   string
}

var publicPaths = map[string]struct{}{
	"/ping":             {},
	"/health":           {},
	"/api/auth/login":   {},
	"/api/swagger.json": {},
	"/api/docs":         {},
	"/api/docs/":        {},
}

// IsPublic reports whether path is served without a bearer token.
func IsPublic(path string) bool {
	_, ok := publicPaths[path]
	return ok
}

// NewServer builds the Echo server with recovery, request IDs, request logging, CORS,
// a body limit, JWT auth and the given handlers.
func NewServer(log *slog.Logger, addr, jwtSecret string, opts Options, handlerList ...Handler) *Server {
	if addr == "" {
		addr = config.DefaultHTTPAddr
	}
	if opts.BodyLimit == "" {
		opts.BodyLimit = config.DefaultBodyLimit
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqLog := log.With(slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), reqLog)))
			return next(c)
		}
	})
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", c.RealIP()),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: opts.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(opts.BodyLimit))
	e.Use(auth.JWTMiddleware(jwtSecret, func(c echo.Context) bool {
		return IsPublic(c.Request().URL.Path)
	}))

	for _, h := range handlerList {
		if h != nil {
			h.Register(e)
		}
	}

	return &Server{
		echo:   e,
		addr:   addr,
		logger: log.With(slog.String("component", "server")),
	}
}

// Echo exposes the underlying instance, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start starts the HTTP server (blocks until shutdown).
func (s *Server) Start() error {
	s.logger.Info("http server listening", slog.String("addr", s.addr))
	return s.echo.Start(s.addr)
}

// Stop gracefully shuts down the server using the given context.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
