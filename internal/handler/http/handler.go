package http

import (
	"net/netip"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/limiter"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/service"
)

type Handler struct {
	services       *service.Services
	limiter        limiter.Limiter
	metrics        *metrics
	cfg            config.Server
	trustedProxies []netip.Prefix

	logger *logger.Logger
}

// NewHandler constructs the HTTP handler. A nil limiter disables rate
// limiting.
func NewHandler(services *service.Services, limiter limiter.Limiter, cfg config.Server, logger *logger.Logger) *Handler {
	trusted, err := cfg.TrustedPrefixes()
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring malformed trusted proxies")
		trusted = nil
	}

	logger.Info().Int("trusted_proxies", len(trusted)).Msg("http handler created")
	return &Handler{
		services:       services,
		limiter:        limiter,
		metrics:        newMetrics(),
		cfg:            cfg,
		trustedProxies: trusted,
		logger:         logger,
	}
}
