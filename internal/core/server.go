package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amoylab/toolserver/internal/common/cnst"
	"github.com/amoylab/toolserver/internal/common/config"
	"github.com/amoylab/toolserver/internal/tool"
	"github.com/amoylab/toolserver/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

type (
	// Server exposes the tool registry over JSON-RPC
	Server struct {
		logger  *zap.Logger
		port    int
		router  *gin.Engine
		engine  *tool.Engine
		rpc     config.RPCConfig
		cors    *config.CORSConfig
		metrics *metrics.Metrics
		// metricsPath is where the Prometheus handler is mounted
		metricsPath string
		tracing     bool
		httpServer  *http.Server
	}

	ServerOption func(*Server)
)

// WithRPCConfig sets the JSON-RPC endpoint behaviour
func WithRPCConfig(cfg config.RPCConfig) ServerOption {
	return func(s *Server) {
		s.rpc = cfg
	}
}

// WithCORS enables CORS headers for the given configuration
func WithCORS(cfg *config.CORSConfig) ServerOption {
	return func(s *Server) {
		s.cors = cfg
	}
}

// WithMetrics records request and tool metrics and serves them on path
func WithMetrics(m *metrics.Metrics, path string) ServerOption {
	return func(s *Server) {
		s.metrics = m
		s.metricsPath = path
	}
}

// WithTracing instruments incoming HTTP requests with OpenTelemetry
func WithTracing() ServerOption {
	return func(s *Server) {
		s.tracing = true
	}
}

// NewServer creates a new tool server
func NewServer(logger *zap.Logger, port int, engine *tool.Engine, opts ...ServerOption) *Server {
	s := &Server{
		logger: logger.Named("core"),
		port:   port,
		router: gin.New(),
		engine: engine,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(s.loggerMiddleware())
	s.router.Use(s.recoveryMiddleware())
	if s.tracing {
		s.router.Use(otelgin.Middleware(cnst.AppName))
	}
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware())
	}
	if s.cors != nil {
		s.router.Use(s.corsMiddleware(s.cors))
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health_check", s.handleHealthCheck)
	s.router.GET("/api/tools", s.handleListTools)

	rpc := s.router.Group("")
	if s.rpc.LogPayloads {
		rpc.Use(s.payloadLogMiddleware())
	}
	rpc.POST("/mcp/message", s.handleMessage)
	rpc.POST("/mcp", s.handleMessage)

	if s.metrics != nil {
		s.router.GET(s.metricsPath, gin.WrapH(s.metrics.Handler()))
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting tool server",
		zap.Int("port", s.port),
		zap.Int("tools", s.engine.Registry().Len()))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
