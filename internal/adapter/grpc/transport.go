package grpc

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	charityflowv1 "github.com/simaogato/charityflow-backend/internal/adapter/grpc/charityflow/v1"
)

// NewGRPCServer builds a grpc.Server with tracing, request logging and token
// auth installed, and registers srv on it
func NewGRPCServer(srv *Server, apiToken string, logger logrus.FieldLogger, opts ...grpc.ServerOption) *grpc.Server {
	base := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(logger),
			AuthInterceptor(apiToken),
		),
	}

	grpcServer := grpc.NewServer(append(base, opts...)...)
	charityflowv1.RegisterFundingServiceServer(grpcServer, srv)
	return grpcServer
}
