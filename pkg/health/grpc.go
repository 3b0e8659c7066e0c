package health

import (
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name reported alongside the overall ("") status
const ServiceName = "etegie.Bot"

// NewGRPCServer returns a gRPC server exposing the standard health service.
// Its serving status follows the checker: NOT_SERVING while a critical
// component is down.
func (c *Checker) NewGRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	srv := grpc.NewServer(opts...)
	hs := grpchealth.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, hs)

	set := func(healthy bool) {
		status := grpc_health_v1.HealthCheckResponse_SERVING
		if !healthy {
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", status)
		hs.SetServingStatus(ServiceName, status)
	}
	set(c.IsSystemHealthy())
	c.OnStatusChange(set)

	return srv
}
