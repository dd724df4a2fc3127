package http

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/go-chi/chi/v5"
)

// topToursQuery is the query string behind the top-5-cheap alias.
var topToursQuery = url.Values{
	query.ParamLimit:  {"5"},
	query.ParamSort:   {"-ratingsAverage,price"},
	query.ParamFields: {"name,price,ratingsAverage,summary,difficulty"},
}

// aliasTopTours replaces the request query with the top-5-cheap preset.
func aliasTopTours(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r2 := r.Clone(r.Context())
		r2.URL.RawQuery = topToursQuery.Encode()
		next.ServeHTTP(w, r2)
	})
}

func (h *Handler) tourStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.services.TourReports.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{"stats": stats})
}

func (h *Handler) monthlyPlan(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil || len(raw) != 4 {
		writeError(w, r, validators.FieldError("year", "Invalid year: "+raw))
		return
	}

	plan, err := h.services.TourReports.MonthlyPlan(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{"plan": plan})
}
