package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HCMUS-Project/saas-gateway/internal/auth"
	"github.com/HCMUS-Project/saas-gateway/internal/authz"
	"github.com/HCMUS-Project/saas-gateway/internal/config"
	"github.com/HCMUS-Project/saas-gateway/internal/errormap"
	"github.com/HCMUS-Project/saas-gateway/internal/health"
	"github.com/HCMUS-Project/saas-gateway/internal/middleware"
	"github.com/HCMUS-Project/saas-gateway/internal/observability"
	"github.com/HCMUS-Project/saas-gateway/internal/rpc"
)

// State represents the server state.
type State int32

const (
	// StateStopped indicates the server is stopped.
	StateStopped State = iota
	// StateRunning indicates the server is accepting requests.
	StateRunning
	// StateStopping indicates the server is draining.
	StateStopping
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Server is the gateway HTTP server: middleware chain, route table and
// lifecycle.
type Server struct {
	cfg        *config.GatewayConfig
	logger     observability.Logger
	verifier   auth.Verifier
	evaluator  authz.Evaluator
	adapter    rpc.Adapter
	translator *errormap.Translator
	checker    *health.Checker
	limiter    *middleware.RateLimiter
	routes     []Route

	engine     *gin.Engine
	httpServer *http.Server
	state      atomic.Int32
}

// ServerOption is a functional option for the server.
type ServerOption func(*Server)

// WithServerLogger sets the logger.
func WithServerLogger(logger observability.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithHealthChecker sets the health checker backing /healthz and /readyz.
func WithHealthChecker(checker *health.Checker) ServerOption {
	return func(s *Server) {
		s.checker = checker
	}
}

// WithRoutes overrides the default route table.
func WithRoutes(routes []Route) ServerOption {
	return func(s *Server) {
		s.routes = routes
	}
}

// NewServer creates the gateway server and builds its gin engine.
func NewServer(
	cfg *config.GatewayConfig,
	verifier auth.Verifier,
	evaluator authz.Evaluator,
	adapter rpc.Adapter,
	translator *errormap.Translator,
	opts ...ServerOption,
) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if verifier == nil {
		return nil, errors.New("verifier is required")
	}
	if adapter == nil {
		return nil, errors.New("adapter is required")
	}
	if translator == nil {
		return nil, errors.New("translator is required")
	}

	s := &Server{
		cfg:        cfg,
		logger:     observability.NopLogger(),
		verifier:   verifier,
		evaluator:  evaluator,
		adapter:    adapter,
		translator: translator,
		routes:     Routes(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.evaluator == nil {
		s.evaluator = authz.NewEvaluator(authz.WithEvaluatorLogger(s.logger))
	}
	if s.checker == nil {
		s.checker = health.NewChecker("")
	}

	if err := s.buildEngine(); err != nil {
		return nil, err
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.engine,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
	}

	return s, nil
}

// buildEngine assembles the middleware chain and registers every route.
func (s *Server) buildEngine() error {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.Recovery(s.logger))
	engine.Use(middleware.Correlation())
	engine.Use(middleware.AccessLogWithConfig(middleware.AccessLogConfig{
		Logger:    s.logger,
		SkipPaths: []string{"/healthz", "/readyz", "/metrics"},
	}))

	if s.cfg.RateLimit.Enabled {
		s.limiter = middleware.NewRateLimiter(s.cfg.RateLimit, s.logger)
		engine.Use(middleware.RateLimit(s.limiter))
	}

	engine.GET("/healthz", s.checker.HealthHandler())
	engine.GET("/readyz", s.checker.ReadinessHandler())
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authConfig := middleware.AuthConfig{
		Verifier:  s.verifier,
		Evaluator: s.evaluator,
	}
	h := newHandler(s.adapter, s.translator, s.logger)

	for _, route := range s.routes {
		if err := route.Validate(); err != nil {
			return err
		}

		var chain []gin.HandlerFunc
		switch route.Auth {
		case AuthAccess:
			chain = append(chain, middleware.RequireAccess(authConfig, route.Roles...))
		case AuthRefresh:
			chain = append(chain, middleware.RequireRefresh(authConfig))
		}
		chain = append(chain, h.callThrough(route))

		engine.Handle(route.Method, route.Path, chain...)

		s.logger.Debug("route registered",
			observability.String("method", route.Method),
			observability.String("path", route.Path),
			observability.String("auth", route.Auth.String()),
			observability.String("operation", route.Operation))
	}

	s.engine = engine
	return nil
}

// Engine exposes the underlying gin engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// State returns the current server state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Start begins serving HTTP requests. It blocks until the listener fails
// or Shutdown is called.
func (s *Server) Start() error {
	if !s.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		return errors.New("server is not in stopped state")
	}

	s.logger.Info("gateway listening",
		observability.String("addr", s.httpServer.Addr),
		observability.Int("routes", len(s.routes)))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.state.Store(int32(StateStopped))
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		return nil
	}
	defer s.state.Store(int32(StateStopped))

	if s.limiter != nil {
		s.limiter.Stop()
	}

	shutdownTimeout := s.cfg.Server.ShutdownTimeout.Duration()
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	s.logger.Info("gateway shutting down")
	return s.httpServer.Shutdown(ctx)
}
