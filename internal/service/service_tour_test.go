package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-tours/internal/mock"
	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTourReportService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	tours := mock.NewMockResourceRepository[models.Tour](ctrl)

	tours.EXPECT().
		Find(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, spec query.Spec) ([]models.Tour, error) {
			require.Len(t, spec.Conditions, 1)
			assert.Equal(t, query.Condition{Field: "ratingsAverage", Op: query.OpGte, Values: []string{"4.5"}}, spec.Conditions[0])
			assert.Zero(t, spec.Limit)

			return []models.Tour{
				{Difficulty: "easy", Price: 397, RatingsAverage: 4.8, RatingsQuantity: 6},
				{Difficulty: "easy", Price: 497, RatingsAverage: 4.6, RatingsQuantity: 4},
				{Difficulty: "difficult", Price: 997, RatingsAverage: 5, RatingsQuantity: 1},
				{Difficulty: "medium", Price: 1497, RatingsAverage: 4.7, RatingsQuantity: 3},
				{Difficulty: "medium", Price: 1997, RatingsAverage: 4.5, RatingsQuantity: 7},
			}, nil
		})

	stats, err := NewTourReportService(tours).Stats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, "EASY", stats[0].Difficulty)
	assert.Equal(t, 2, stats[0].NumTours)
	assert.Equal(t, 10, stats[0].NumRatings)
	assert.InDelta(t, 4.7, stats[0].AvgRating, 1e-9)
	assert.InDelta(t, 447, stats[0].AvgPrice, 1e-9)
	assert.Equal(t, 397.0, stats[0].MinPrice)
	assert.Equal(t, 497.0, stats[0].MaxPrice)

	assert.Equal(t, "DIFFICULT", stats[1].Difficulty)
	assert.Equal(t, "MEDIUM", stats[2].Difficulty)
	assert.Equal(t, 1997.0, stats[2].MaxPrice)
}

func TestTourReportService_Stats_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	tours := mock.NewMockResourceRepository[models.Tour](ctrl)

	boom := errors.New("boom")
	tours.EXPECT().Find(gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := NewTourReportService(tours).Stats(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestTourReportService_MonthlyPlan(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 9, 0, 0, 0, time.UTC) }

	f := newResourceFixture()
	ctx := context.Background()

	forest := newTour("The Forest Hiker", 397)
	forest.StartDates = models.TimeList{day(2026, time.April, 25), day(2026, time.July, 20), day(2027, time.April, 5)}
	sea := newTour("The Sea Explorer", 497)
	sea.StartDates = models.TimeList{day(2026, time.July, 1), day(2025, time.December, 31)}

	for _, tour := range []models.Tour{forest, sea} {
		_, err := f.tours.Create(ctx, tour)
		require.NoError(t, err)
	}

	plan, err := NewTourReportService(f.storages.Tours).MonthlyPlan(ctx, 2026)
	require.NoError(t, err)

	require.Len(t, plan, 2)
	assert.Equal(t, 4, plan[0].Month)
	assert.Equal(t, 1, plan[0].NumTourStarts)
	assert.Equal(t, []string{"The Forest Hiker"}, plan[0].Tours)

	assert.Equal(t, 7, plan[1].Month)
	assert.Equal(t, 2, plan[1].NumTourStarts)
	assert.ElementsMatch(t, []string{"The Forest Hiker", "The Sea Explorer"}, plan[1].Tours)

	empty, err := NewTourReportService(f.storages.Tours).MonthlyPlan(ctx, 2030)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
