package handler

import (
	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/handler/grpc"
	"github.com/MKhiriev/go-tours/internal/handler/http"
	"github.com/MKhiriev/go-tours/internal/limiter"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

func NewHandlers(services *service.Services, limiter limiter.Limiter, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, limiter, cfg, logger)
	}
	if cfg.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
