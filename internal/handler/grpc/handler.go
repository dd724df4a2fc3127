// Package grpc exposes the standard gRPC health service for the tours API.
package grpc

import (
	"context"
	"time"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall
// ("") status.
const ServiceName = "tours.v1.API"

// DefaultCheckInterval is how often Watch re-checks the dependencies.
const DefaultCheckInterval = 10 * time.Second

// Handler is the root gRPC transport handler.
//
// It owns a [health.Server] whose status follows the HealthService of the
// service layer. A handler instance is created once at startup and shared
// by the gRPC server.
type Handler struct {
	// services provides access to the health check.
	services *service.Services

	health *health.Server

	// logger is used for diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler]. The health status starts as
// NOT_SERVING until the first successful check.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	h := &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)

	logger.Debug().Msg("gRPC handler created")
	return h
}

// Register adds the health service to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Check runs the dependency checks once and publishes the result.
func (h *Handler) Check(ctx context.Context) {
	if err := h.services.HealthService.Check(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("health check failed")
		h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	h.setStatus(healthpb.HealthCheckResponse_SERVING)
}

// Watch calls Check every interval until ctx is done.
func (h *Handler) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}

	h.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Shutdown switches every service to NOT_SERVING permanently.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

func (h *Handler) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
