package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/sexpad/foundation/core/error"
	"github.com/msto63/sexpad/internal/scratchpad/handler"
	"github.com/msto63/sexpad/internal/scratchpad/service"
	coreGrpc "github.com/msto63/sexpad/pkg/core/grpc"
	"github.com/msto63/sexpad/pkg/core/health"
	"github.com/msto63/sexpad/pkg/core/logging"
	"github.com/msto63/sexpad/pkg/core/version"
)

// RequestIDHeader carries the request ID on HTTP requests and responses
const RequestIDHeader = "X-Request-ID"

// Config holds server configuration
type Config struct {
	Host            string
	HTTPPort        int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string

	GRPCEnabled    bool
	GRPCHost       string
	GRPCPort       int
	GRPCReflection bool
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		HTTPPort:        8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		GRPCEnabled:     true,
		GRPCHost:        "127.0.0.1",
		GRPCPort:        9090,
		GRPCReflection:  true,
	}
}

// Server exposes the scratchpad over HTTP, WebSocket and gRPC
type Server struct {
	httpServer *http.Server
	grpc       *coreGrpc.Server
	health     *health.Registry
	logger     *logging.Logger
	config     Config
}

// New creates a new scratchpad server. pinger, if non-nil, backs the
// "store" health check.
func New(cfg Config, svc *service.Service, pinger health.Pinger, logger *logging.Logger) (*Server, error) {
	if svc == nil {
		return nil, mdwerror.New("scratchpad service is required").
			WithCode(mdwerror.CodeRequiredField).
			WithOperation("server.New")
	}
	if logger == nil {
		logger = logging.New("scratchpad-server")
	}

	healthRegistry := health.NewRegistry("sexpad", version.Version)
	healthRegistry.Register(health.AlwaysHealthy("reader"))
	if pinger != nil {
		healthRegistry.Register(health.PingCheck("store", pinger))
	}

	mux := http.NewServeMux()
	api := handler.NewHandler(svc, healthRegistry, logger)
	mux.Handle("/ws", handler.NewWebSocketHandler(svc, cfg.AllowedOrigins, logger))
	mux.Handle("/api/", api)
	mux.Handle("/health", api)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.HTTPPort),
		Handler:      requestIDMiddleware(corsMiddleware(cfg.AllowedOrigins, loggingMiddleware(logger, mux))),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	s := &Server{
		httpServer: httpServer,
		health:     healthRegistry,
		logger:     logger,
		config:     cfg,
	}

	if cfg.GRPCEnabled {
		grpcCfg := coreGrpc.DefaultServerConfig()
		grpcCfg.Host = cfg.GRPCHost
		grpcCfg.Port = cfg.GRPCPort
		grpcCfg.EnableReflection = cfg.GRPCReflection
		grpcCfg.Logger = logger

		s.grpc = coreGrpc.NewServer(grpcCfg)
		RegisterReaderServer(s.grpc.GRPCServer(), NewReaderService(svc, logger))
		s.grpc.SetServing(ReaderServiceName, true)
	}

	return s, nil
}

// Handler returns the HTTP handler including middleware
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// GRPC returns the gRPC server, or nil when gRPC is disabled
func (s *Server) GRPC() *coreGrpc.Server {
	return s.grpc
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}

// Start serves HTTP (and gRPC, when enabled) until ctx is cancelled, then
// shuts down gracefully within ShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return mdwerror.Wrap(err, "failed to listen").
			WithCode(mdwerror.CodeConnectionFailed).
			WithOperation("server.Start").
			WithDetail("address", s.httpServer.Addr)
	}

	errCh := make(chan error, 2)

	if s.grpc != nil {
		if err := s.grpc.StartAsync(); err != nil {
			listener.Close()
			return mdwerror.Wrap(err, "failed to start gRPC server").
				WithCode(mdwerror.CodeConnectionFailed).
				WithOperation("server.Start")
		}
		s.logger.Info("gRPC server listening", "address", s.grpc.Address())
	}

	go func() {
		s.logger.Info("HTTP server listening", "address", listener.Addr().String())
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		s.stop()
		return mdwerror.Wrap(err, "HTTP server failed").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithOperation("server.Start")
	}

	return s.stop()
}

func (s *Server) stop() error {
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down", "timeout", timeout)

	if s.grpc != nil {
		s.grpc.StopWithTimeout(ctx)
	}
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
			"request_id", w.Header().Get(RequestIDHeader),
		)
	})
}

// requestIDMiddleware echoes the caller's request ID or assigns a new one
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware sets CORS headers. An empty allowed list permits any origin.
func corsMiddleware(allowed []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(allowed) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && originAllowed(allowed, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		next.ServeHTTP(w, r)
	})
}

func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrader take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}
