package domain

import "time"

type Booking struct {
	ID        int64     `db:"id" json:"id"`
	SpotID    int64     `db:"spot_id" json:"spotId"`
	UserID    int64     `db:"user_id" json:"userId"`
	StartDate time.Time `db:"start_date" json:"startDate"`
	EndDate   time.Time `db:"end_date" json:"endDate"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// BookingWindow is what non-owners see when listing a spot's bookings: the
// occupied dates without the booker's identity.
type BookingWindow struct {
	SpotID    int64     `db:"spot_id" json:"spotId"`
	StartDate time.Time `db:"start_date" json:"startDate"`
	EndDate   time.Time `db:"end_date" json:"endDate"`
}

// BookingWithSpot decorates a booking with the spot summary the trips view
// renders.
type BookingWithSpot struct {
	Booking
	Spot SpotListItem `json:"Spot"`
}
