// Package server exposes lloyd sessions over HTTP.
//
// Routes:
//
//	POST   /cluster        run a session to completion
//	POST   /generate_data  synthesize a point set
//	POST   /step_kmeans    advance a registered session by one step
//	GET    /sessions/:id   inspect a registered session
//	DELETE /sessions/:id   drop a registered session
//	GET    /health         liveness
//	GET    /metrics        Prometheus exposition
//
// Errors are reported as {"error": "...", "kind": "..."}.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/codec"
	"github.com/hupe1980/lloyd/config"
	"github.com/hupe1980/lloyd/resource"
)

type options struct {
	logger   *lloyd.Logger
	registry *prometheus.Registry
}

// Option configures a Server.
type Option func(*options)

// WithLogger sets the logger for requests and sessions.
func WithLogger(logger *lloyd.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPrometheusRegistry registers the server's collectors on r instead of a
// private registry.
func WithPrometheusRegistry(r *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// Server is the lloyd HTTP service.
type Server struct {
	cfg      config.Config
	app      *fiber.App
	codec    codec.Codec
	sessions *Registry
	rc       *resource.Controller
	metrics  *Metrics
	logger   *lloyd.Logger
}

// New creates a Server from a validated configuration.
func New(cfg config.Config, optFns ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.logger == nil {
		opts.logger = lloyd.NoopLogger()
	}
	if opts.registry == nil {
		opts.registry = prometheus.NewRegistry()
	}

	c, err := codec.ByName(cfg.Server.Codec)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		codec:    c,
		sessions: NewRegistry(cfg.Sessions.TTL, cfg.Sessions.CleanupInterval),
		rc: resource.NewController(resource.Config{
			MaxConcurrentFits: cfg.Limits.MaxConcurrentFits,
			MemoryLimitBytes:  cfg.Limits.MaxInflightBytes,
			RequestsPerSecond: cfg.Limits.RequestsPerSecond,
			Burst:             cfg.Limits.Burst,
		}),
		logger: opts.logger,
	}
	s.metrics = NewMetrics(opts.registry, func() float64 {
		return float64(s.sessions.Len())
	}, s.rc)

	s.app = fiber.New(fiber.Config{
		AppName:               "lloydd",
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		DisableStartupMessage: true,
		JSONEncoder:           c.Marshal,
		JSONDecoder:           c.Unmarshal,
		ErrorHandler:          s.handleError,
	})
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(s.requestLogger)
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{AllowOrigins: s.cfg.Server.CORSOrigins}))

	s.app.Get("/health", s.handleHealth)
	s.app.Get("/metrics", s.metrics.Handler())

	s.app.Post("/cluster", s.rateLimit, s.handleCluster)
	s.app.Post("/generate_data", s.rateLimit, s.handleGenerate)
	s.app.Post("/step_kmeans", s.rateLimit, s.handleStep)
	s.app.Get("/sessions/:id", s.rateLimit, s.handleGetSession)
	s.app.Delete("/sessions/:id", s.rateLimit, s.handleDeleteSession)
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("server listening", "addr", addr, "codec", s.codec.Name())
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// requestLogger resolves the handler error into a response, then logs and
// counts the request.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := s.app.ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	latency := time.Since(start)
	status := c.Response().StatusCode()
	s.metrics.observeRequest(c.Route().Path, c.Method(), status, latency)
	s.logger.Info("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", latency,
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
	)
	return nil
}

func (s *Server) rateLimit(c *fiber.Ctx) error {
	if !s.rc.Allow() {
		return resource.ErrRateLimited
	}
	return c.Next()
}
