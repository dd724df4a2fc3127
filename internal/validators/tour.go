package validators

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-tours/models"
)

// Tour field names, as they appear in JSON.
const (
	FieldName          = "name"
	FieldDuration      = "duration"
	FieldMaxGroupSize  = "maxGroupSize"
	FieldDifficulty    = "difficulty"
	FieldRatingsAvg    = "ratingsAverage"
	FieldPrice         = "price"
	FieldPriceDiscount = "priceDiscount"
	FieldSummary       = "summary"
	FieldImageCover    = "imageCover"
)

const (
	tourNameMinLength = 10
	tourNameMaxLength = 40
)

var tourFields = []string{
	FieldName, FieldDuration, FieldMaxGroupSize, FieldDifficulty, FieldRatingsAvg,
	FieldPrice, FieldPriceDiscount, FieldSummary, FieldImageCover,
}

var difficulties = []string{
	models.DifficultyEasy,
	models.DifficultyMedium,
	models.DifficultyDifficult,
}

type TourValidator struct{}

func NewTourValidator() Validator {
	return &TourValidator{}
}

func (v *TourValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Tour:
		return v.validateTour(value, fields...)
	case *models.Tour:
		return v.validateTour(*value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *TourValidator) validateTour(tour models.Tour, fields ...string) error {
	if len(fields) == 0 {
		fields = tourFields
	}

	verr := NewValidationError()
	for _, f := range fields {
		switch f {
		case FieldName:
			name := strings.TrimSpace(tour.Name)
			n := utf8.RuneCountInString(name)
			switch {
			case n == 0:
				verr.Add(f, "A tour must have a name")
			case n < tourNameMinLength:
				verr.Add(f, fmt.Sprintf("A tour name must have more or equal then %d characters", tourNameMinLength))
			case n > tourNameMaxLength:
				verr.Add(f, fmt.Sprintf("A tour name must have less or equal then %d characters", tourNameMaxLength))
			}
		case FieldDuration:
			if tour.Duration <= 0 {
				verr.Add(f, "A tour must have a duration")
			}
		case FieldMaxGroupSize:
			if tour.MaxGroupSize <= 0 {
				verr.Add(f, "A tour must have a group size")
			}
		case FieldDifficulty:
			if !slices.Contains(difficulties, tour.Difficulty) {
				verr.Add(f, "Difficulty is either: easy, medium, difficult")
			}
		case FieldRatingsAvg:
			if tour.RatingsAverage < 1 || tour.RatingsAverage > 5 {
				verr.Add(f, "Rating must be between 1.0 and 5.0")
			}
		case FieldPrice:
			if tour.Price <= 0 {
				verr.Add(f, "A tour must have a price")
			}
		case FieldPriceDiscount:
			if tour.PriceDiscount != nil && (*tour.PriceDiscount < 0 || *tour.PriceDiscount >= tour.Price) {
				verr.Add(f, fmt.Sprintf("Discount price (%g) should be below regular price", *tour.PriceDiscount))
			}
		case FieldSummary:
			if strings.TrimSpace(tour.Summary) == "" {
				verr.Add(f, "A tour must have a summary")
			}
		case FieldImageCover:
			if tour.ImageCover == "" {
				verr.Add(f, "A tour must have a cover image")
			}
		default:
			return ErrUnknownField
		}
	}

	return verr.OrNil()
}
