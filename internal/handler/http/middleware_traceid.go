package http

import (
	"net/http"

	"github.com/MKhiriev/go-tours/internal/utils"
	"github.com/rs/zerolog"
)

const (
	traceIDHeader   = "X-Trace-ID"
	maxTraceIDBytes = 128
)

// withTraceID attaches a child logger carrying trace_id to the request
// context. A usable X-Trace-ID is reused, otherwise a new id is generated.
// The id is echoed back either way.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if !validTraceID(traceID) {
			traceID = utils.NewTraceID()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}

// validTraceID accepts non-empty printable ASCII of bounded length.
func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDBytes {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}

	return true
}
