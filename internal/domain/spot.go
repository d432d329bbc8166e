package domain

import "time"

type Spot struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"owner_id" json:"ownerId"`
	Address     string    `db:"address" json:"address"`
	City        string    `db:"city" json:"city"`
	State       string    `db:"state" json:"state"`
	Country     string    `db:"country" json:"country"`
	Lat         float64   `db:"lat" json:"lat"`
	Lng         float64   `db:"lng" json:"lng"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       int       `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// SpotListItem is a spot row decorated with the aggregates the list views
// render. AvgRating is nil while the spot has no reviews and PreviewImage is
// nil while no image is flagged as the preview; both serialize as JSON null
// rather than a misleading zero value.
type SpotListItem struct {
	Spot
	AvgRating    *float64 `db:"avg_rating" json:"avgRating"`
	PreviewImage *string  `db:"preview_image" json:"previewImage"`
}

// SpotDetail is the single-spot response shape: owner summary, every image,
// and review aggregates computed by the database.
type SpotDetail struct {
	Spot
	NumReviews    int         `json:"numReviews"`
	AvgStarRating *float64    `json:"avgStarRating"`
	Images        []SpotImage `json:"SpotImages"`
	Owner         UserSummary `json:"Owner"`
}

type SpotImage struct {
	ID        int64     `db:"id" json:"id"`
	SpotID    int64     `db:"spot_id" json:"spotId"`
	URL       string    `db:"url" json:"url"`
	Preview   bool      `db:"preview" json:"preview"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// SpotFields carries create/update input. Pointer fields distinguish "absent"
// from "present but zero": an update applies a field only when its pointer is
// set, so an empty payload leaves the row untouched and explicit zero values
// still reach validation.
type SpotFields struct {
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	State       *string  `json:"state"`
	Country     *string  `json:"country"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *int     `json:"price"`
}

type SpotRatingSummary struct {
	NumReviews    int      `db:"num_reviews"`
	AvgStarRating *float64 `db:"avg_star_rating"`
}
