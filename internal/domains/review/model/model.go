package model

import (
	"rentfy/shared/model"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID                = "id"
	FieldBookingID         = "booking_id"
	FieldPropertyID        = "property_id"
	FieldGuestID           = "guest_id"
	FieldRatingCleanliness = "rating_cleanliness"
	FieldRatingComfort     = "rating_comfort"
	FieldRatingLocation    = "rating_location"
	FieldRatingValue       = "rating_value"
	FieldComment           = "comment"
	FieldCreatedAt         = "created_at"
)

type Review struct {
	ID                string  `db:"id"`
	BookingID         string  `db:"booking_id"`
	PropertyID        string  `db:"property_id"`
	GuestID           string  `db:"guest_id"`
	RatingCleanliness int     `db:"rating_cleanliness"`
	RatingComfort     int     `db:"rating_comfort"`
	RatingLocation    int     `db:"rating_location"`
	RatingValue       int     `db:"rating_value"`
	Comment           *string `db:"comment"`
	model.Metadata
}

// Overall is the mean of the four category ratings.
func (r Review) Overall() float64 {
	const categories = 4

	return float64(r.RatingCleanliness+r.RatingComfort+r.RatingLocation+r.RatingValue) / categories
}

type ReviewDetail struct {
	Review
	GuestName string `column:"name" db:"guest_name" table:"guests"`
}

func (ReviewDetail) GetJoinQuery() string {
	return "JOIN users AS guests ON guests.id = reviews.guest_id"
}
