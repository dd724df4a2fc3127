package validators

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-tours/models"
)

// Review field names.
const (
	FieldReview = "review"
	FieldRating = "rating"
	FieldTour   = "tour"
	FieldUser   = "user"
)

type ReviewValidator struct{}

func NewReviewValidator() Validator {
	return &ReviewValidator{}
}

func (v *ReviewValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Review:
		return v.validateReview(value, fields...)
	case *models.Review:
		return v.validateReview(*value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *ReviewValidator) validateReview(review models.Review, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldReview, FieldRating, FieldTour, FieldUser}
	}

	verr := NewValidationError()
	for _, f := range fields {
		switch f {
		case FieldReview:
			if strings.TrimSpace(review.Review) == "" {
				verr.Add(f, "Review can not be empty!")
			}
		case FieldRating:
			if review.Rating < 1 || review.Rating > 5 {
				verr.Add(f, "Rating must be between 1 and 5")
			}
		case FieldTour:
			if review.Tour <= 0 {
				verr.Add(f, "Review must belong to a tour.")
			}
		case FieldUser:
			if review.User <= 0 {
				verr.Add(f, "Review must belong to a user")
			}
		default:
			return ErrUnknownField
		}
	}

	return verr.OrNil()
}
