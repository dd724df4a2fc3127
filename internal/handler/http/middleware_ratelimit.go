package http

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-tours/internal/logger"
)

// withRateLimit limits requests per client IP. Limiter failures let the
// request through.
func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		decision, err := h.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			logger.FromRequest(r).Warn().Err(err).Msg("rate limiter unavailable")
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			writeError(w, r, ErrTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of r.RemoteAddr, which withClientIP has
// already replaced with the forwarded address for trusted proxies.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
