package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-tours/internal/logger"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte(serverVersion)); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing version")
	}
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.services.HealthService.Check(r.Context()); err != nil {
		logger.FromRequest(r).Warn().Err(err).Msg("health check failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, &routeNotFoundError{path: r.URL.Path})
}

// routeNotFoundError reports a request no route matched.
type routeNotFoundError struct {
	path string
}

func (e *routeNotFoundError) Error() string {
	return fmt.Sprintf("Can't find %s on this server!", e.path)
}
