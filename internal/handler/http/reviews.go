package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/internal/service"
	"github.com/MKhiriev/go-tours/internal/utils"
	"github.com/MKhiriev/go-tours/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) newReviewHandler() *resourceHandler[models.Review] {
	rh := newResourceHandler(h, h.services.Reviews)
	rh.scope = reviewScope
	rh.prepare = prepareReview
	return rh
}

// reviewScope restricts a nested listing to the tour in the route.
func reviewScope(r *http.Request) ([]query.Condition, error) {
	if chi.URLParam(r, "id") == "" {
		return nil, nil
	}
	tourID, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	return []query.Condition{query.Eq("tour", strconv.FormatInt(tourID, 10))}, nil
}

// prepareReview fills the tour from a nested route when the body leaves it
// out. The author is always the authenticated user; only an admin may file
// a review on behalf of someone else.
func prepareReview(r *http.Request, review *models.Review) error {
	if review.Tour == 0 && chi.URLParam(r, "id") != "" {
		tourID, err := pathID(r, "id")
		if err != nil {
			return err
		}
		review.Tour = tourID
	}

	user, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		return service.ErrNotLoggedIn
	}
	if review.User == 0 || user.Role != models.RoleAdmin {
		review.User = user.ID
	}
	return nil
}
