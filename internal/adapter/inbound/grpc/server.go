package grpc

import (
	"context"
	"fmt"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/0xsj/overwatch-pkg/log"
)

// ServiceName is the health-check name reported for the profile service.
const ServiceName = "overwatch.profile"

// ServerConfig holds configuration for the ops gRPC server.
type ServerConfig struct {
	Host              string
	Port              int
	EnableReflection  bool
	EnableHealthCheck bool
}

// Address returns the server address.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the server configuration.
func (c ServerConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// Server serves gRPC health checks and reflection for orchestration.
type Server struct {
	config     ServerConfig
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	logger     log.Logger
}

// NewServer creates a new ops gRPC server. Health starts as NOT_SERVING
// until SetServingStatus flips it.
func NewServer(cfg ServerConfig, logger log.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(BuildUnaryInterceptors(logger)...),
		grpc.ChainStreamInterceptor(BuildStreamInterceptors(logger)...),
	)

	s := &Server{
		config:     cfg,
		grpcServer: grpcServer,
		logger:     logger,
	}

	if cfg.EnableHealthCheck {
		s.health = health.NewServer()
		s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		s.health.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		grpc_health_v1.RegisterHealthServer(grpcServer, s.health)
	}

	if cfg.EnableReflection {
		reflection.Register(grpcServer)
	}

	return s, nil
}

// Start listens on the configured address and serves until stopped.
func (s *Server) Start() error {
	addr := s.config.Address()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return s.Serve(listener)
}

// Serve serves on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.listener = listener

	s.logger.Info("ops gRPC server starting",
		log.String("address", listener.Addr().String()),
		log.Any("reflection", s.config.EnableReflection),
		log.Any("health_check", s.config.EnableHealthCheck),
	)

	return s.grpcServer.Serve(listener)
}

// SetServingStatus sets the health of both the overall server and the profile service.
func (s *Server) SetServingStatus(serving bool) {
	if s.health == nil {
		return
	}

	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Stop gracefully stops the gRPC server, forcing it once ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("ops gRPC server stopping")

	if s.health != nil {
		s.health.Shutdown()
	}

	stopped := make(chan struct{})

	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("ops gRPC server force stopping")
		s.grpcServer.Stop()
		return ctx.Err()
	case <-stopped:
		s.logger.Info("ops gRPC server stopped gracefully")
		return nil
	}
}

// Address returns the server's listening address.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// GRPCServer returns the underlying grpc.Server.
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpcServer
}
