package models

import "time"

// Review is a rating left by a user for a tour.
type Review struct {
	ID        int64     `json:"id"`
	Review    string    `json:"review"`
	Rating    int       `json:"rating"`
	Tour      int64     `json:"tour"`
	User      int64     `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the name of the database table
// associated with the Review model.
func (r Review) TableName() string {
	return "reviews"
}
