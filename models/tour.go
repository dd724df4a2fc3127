package models

import "time"

// Difficulty levels accepted for a tour.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// DefaultRatingsAverage is assigned to tours without reviews.
const DefaultRatingsAverage = 4.6

// Tour is a bookable tour offered by the agency.
type Tour struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Duration        int        `json:"duration"`
	MaxGroupSize    int        `json:"maxGroupSize"`
	Difficulty      string     `json:"difficulty"`
	RatingsAverage  float64    `json:"ratingsAverage"`
	RatingsQuantity int        `json:"ratingsQuantity"`
	Price           float64    `json:"price"`
	PriceDiscount   *float64   `json:"priceDiscount,omitempty"`
	Summary         string     `json:"summary"`
	Description     string     `json:"description,omitempty"`
	ImageCover      string     `json:"imageCover"`
	Images          StringList `json:"images"`
	StartDates      TimeList   `json:"startDates"`
	CreatedAt       time.Time  `json:"createdAt"`

	// Version is incremented on every update.
	Version int64 `json:"version"`

	// Reviews is populated only when a single tour is requested.
	Reviews []Review `json:"reviews,omitempty"`
}

// TableName returns the name of the database table
// associated with the Tour model.
func (t Tour) TableName() string {
	return "tours"
}

// DurationWeeks returns the tour duration expressed in weeks.
func (t Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}

// TourStats aggregates tours of one difficulty level.
type TourStats struct {
	Difficulty string  `json:"difficulty"`
	NumTours   int     `json:"numTours"`
	NumRatings int     `json:"numRatings"`
	AvgRating  float64 `json:"avgRating"`
	AvgPrice   float64 `json:"avgPrice"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
}

// MonthlyPlan lists the tours starting in one month.
type MonthlyPlan struct {
	Month         int      `json:"month"`
	NumTourStarts int      `json:"numTourStarts"`
	Tours         []string `json:"tours"`
}
