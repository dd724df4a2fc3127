package service

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/MKhiriev/go-tours/models"
)

// StatsMinRating is the lowest ratings average included in tour stats.
const StatsMinRating = 4.5

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins its words with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func tourSaveSteps() []Step[models.Tour] {
	return []Step[models.Tour]{
		{
			Name: "trim-text",
			Run: func(_ context.Context, t *models.Tour, _ Operation) error {
				t.Name = strings.TrimSpace(t.Name)
				t.Summary = strings.TrimSpace(t.Summary)
				t.Description = strings.TrimSpace(t.Description)
				return nil
			},
		},
		{
			Name: "slugify-name",
			Run: func(_ context.Context, t *models.Tour, _ Operation) error {
				t.Slug = Slugify(t.Name)
				return nil
			},
		},
	}
}

// NewTourService builds the tour resource. Single tours come with their
// reviews and deleting a tour removes its reviews.
func NewTourService(tours store.ResourceRepository[models.Tour], reviews store.ResourceRepository[models.Review], logger *logger.Logger) ResourceService[models.Tour] {
	return NewResourceService(tours, ResourceConfig[models.Tour]{
		Name:      "tour",
		Validator: validators.NewTourValidator(),
		Defaults: func(t *models.Tour) {
			if t.RatingsAverage == 0 {
				t.RatingsAverage = models.DefaultRatingsAverage
			}
		},
		Steps: tourSaveSteps(),
		Populate: func(ctx context.Context, t *models.Tour) error {
			found, err := reviews.Find(ctx, reviewsOf(t.ID))
			if err != nil {
				return err
			}
			t.Reviews = found
			return nil
		},
		AfterDelete: func(ctx context.Context, t models.Tour) error {
			found, err := reviews.Find(ctx, reviewsOf(t.ID))
			if err != nil {
				return err
			}
			for _, r := range found {
				if err := reviews.Delete(ctx, r.ID); err != nil && !isNotFound(err) {
					return err
				}
			}
			return nil
		},
	}, logger)
}

func reviewsOf(tourID int64) query.Spec {
	return query.All(query.Eq(validators.FieldTour, strconv.FormatInt(tourID, 10)))
}

type tourReportService struct {
	tours store.ResourceRepository[models.Tour]
}

// NewTourReportService constructs a [TourReportService].
func NewTourReportService(tours store.ResourceRepository[models.Tour]) TourReportService {
	return &tourReportService{tours: tours}
}

// Stats groups well rated tours by difficulty, cheapest group first.
func (s *tourReportService) Stats(ctx context.Context) ([]models.TourStats, error) {
	tours, err := s.tours.Find(ctx, query.All(query.Condition{
		Field:  validators.FieldRatingsAvg,
		Op:     query.OpGte,
		Values: []string{strconv.FormatFloat(StatsMinRating, 'f', -1, 64)},
	}))
	if err != nil {
		return nil, err
	}

	type acc struct {
		stats     models.TourStats
		ratingSum float64
		priceSum  float64
	}
	groups := make(map[string]*acc)
	for _, t := range tours {
		g, ok := groups[t.Difficulty]
		if !ok {
			g = &acc{stats: models.TourStats{
				Difficulty: strings.ToUpper(t.Difficulty),
				MinPrice:   t.Price,
				MaxPrice:   t.Price,
			}}
			groups[t.Difficulty] = g
		}
		g.stats.NumTours++
		g.stats.NumRatings += t.RatingsQuantity
		g.ratingSum += t.RatingsAverage
		g.priceSum += t.Price
		g.stats.MinPrice = math.Min(g.stats.MinPrice, t.Price)
		g.stats.MaxPrice = math.Max(g.stats.MaxPrice, t.Price)
	}

	out := make([]models.TourStats, 0, len(groups))
	for _, g := range groups {
		g.stats.AvgRating = g.ratingSum / float64(g.stats.NumTours)
		g.stats.AvgPrice = g.priceSum / float64(g.stats.NumTours)
		out = append(out, g.stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgPrice != out[j].AvgPrice {
			return out[i].AvgPrice < out[j].AvgPrice
		}
		return out[i].Difficulty < out[j].Difficulty
	})
	return out, nil
}

// MonthlyPlan lists, per month of year, the tours starting in that month.
func (s *tourReportService) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error) {
	tours, err := s.tours.Find(ctx, query.All())
	if err != nil {
		return nil, err
	}

	plans := make(map[int]*models.MonthlyPlan)
	for _, t := range tours {
		for _, start := range t.StartDates {
			start = start.UTC()
			if start.Year() != year {
				continue
			}
			month := int(start.Month())
			p, ok := plans[month]
			if !ok {
				p = &models.MonthlyPlan{Month: month, Tours: []string{}}
				plans[month] = p
			}
			p.NumTourStarts++
			p.Tours = append(p.Tours, t.Name)
		}
	}

	out := make([]models.MonthlyPlan, 0, len(plans))
	for _, p := range plans {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
