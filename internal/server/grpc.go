package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/alfredjeanlab/configs/internal/rpc"
)

// NewGRPCServer creates a gRPC server with standard interceptors and registers
// the ConfigurationService, the standard health service and reflection.
// When authToken is non-empty, calls other than health and DecodeToken must
// carry a bearer token.
func NewGRPCServer(cs *ConfigServer, authToken string) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor,
			cs.MetricsInterceptor,
			LoggingInterceptor,
			AuthInterceptor(authToken),
		),
	)

	rpc.RegisterConfigurationServiceServer(srv, cs)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	reflection.Register(srv)

	return srv
}
