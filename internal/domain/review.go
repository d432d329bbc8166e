package domain

import "time"

type Review struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	SpotID    int64     `db:"spot_id" json:"spotId"`
	Review    string    `db:"review" json:"review"`
	Stars     int       `db:"stars" json:"stars"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	AuthorFirstName *string `db:"author_first_name" json:"-"`
	AuthorLastName  *string `db:"author_last_name" json:"-"`

	Images []ReviewImage `json:"ReviewImages,omitempty"`
}

// Author returns the reviewer summary joined in by the repository.
func (r Review) Author() UserSummary {
	summary := UserSummary{ID: r.UserID}
	if r.AuthorFirstName != nil {
		summary.FirstName = *r.AuthorFirstName
	}
	if r.AuthorLastName != nil {
		summary.LastName = *r.AuthorLastName
	}
	return summary
}

type ReviewImage struct {
	ID        int64     `db:"id" json:"id"`
	ReviewID  int64     `db:"review_id" json:"reviewId"`
	URL       string    `db:"url" json:"url"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// ReviewPromptState tells the client which review affordance to render for a
// spot: the login hint, nothing (the owner cannot review their own spot), the
// delete button for an existing review, or the create button.
type ReviewPromptState string

const (
	ReviewPromptNotLoggedIn ReviewPromptState = "not_logged_in"
	ReviewPromptOwner       ReviewPromptState = "owner"
	ReviewPromptHasReview   ReviewPromptState = "has_review"
	ReviewPromptCanReview   ReviewPromptState = "can_review"
)
