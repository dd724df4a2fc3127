package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/MKhiriev/go-tours/models"
)

// NewReviewService builds the review resource. Every review write
// recomputes the rating summary of the reviewed tour.
func NewReviewService(reviews store.ResourceRepository[models.Review], tours store.ResourceRepository[models.Tour], logger *logger.Logger) ResourceService[models.Review] {
	ratings := &tourRatings{tours: tours, reviews: reviews}

	return NewResourceService(reviews, ResourceConfig[models.Review]{
		Name:      "review",
		Validator: validators.NewReviewValidator(),
		Steps: []Step[models.Review]{
			{
				Name: "check-tour-exists",
				Run: func(ctx context.Context, r *models.Review, op Operation) error {
					if op != OpCreate {
						return nil
					}
					_, err := tours.FindByID(ctx, r.Tour)
					if isNotFound(err) {
						return validators.FieldError(validators.FieldTour, "No tour found with that ID")
					}
					return err
				},
			},
		},
		AfterSave: func(ctx context.Context, r models.Review) error {
			return ratings.recompute(ctx, r.Tour)
		},
		AfterDelete: func(ctx context.Context, r models.Review) error {
			return ratings.recompute(ctx, r.Tour)
		},
	}, logger)
}

type tourRatings struct {
	tours   store.ResourceRepository[models.Tour]
	reviews store.ResourceRepository[models.Review]
}

// recompute stores the average rating, rounded to one decimal, and the
// number of reviews of tourID. Tours without reviews get the default
// average.
func (t *tourRatings) recompute(ctx context.Context, tourID int64) error {
	reviews, err := t.reviews.Find(ctx, reviewsOf(tourID))
	if err != nil {
		return fmt.Errorf("error loading reviews: %w", err)
	}

	average := models.DefaultRatingsAverage
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		average = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}

	tour, err := t.tours.FindByID(ctx, tourID)
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if tour.RatingsAverage == average && tour.RatingsQuantity == len(reviews) {
		return nil
	}
	tour.RatingsAverage = average
	tour.RatingsQuantity = len(reviews)

	if _, err := t.tours.Update(ctx, tourID, tour); err != nil && !isNotFound(err) {
		return fmt.Errorf("error updating tour ratings: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
