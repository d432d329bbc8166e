package service

import (
	"context"
	"errors"
	"strings"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/repository/ports"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("user already has a review for this spot")
	ErrReviewForbidden     = errors.New("not allowed to manage this review")
)

type ReviewService struct {
	reviews ports.ReviewRepository
	images  ports.ReviewImageRepository
	spots   ports.SpotRepository
}

func NewReviewService(reviews ports.ReviewRepository, images ports.ReviewImageRepository, spots ports.SpotRepository) *ReviewService {
	return &ReviewService{reviews: reviews, images: images, spots: spots}
}

// Create inserts the caller's review for a spot. The one-review-per-user-spot
// rule rides on the database unique index: a concurrent duplicate surfaces as
// a unique violation here, never as a second stored row.
func (s *ReviewService) Create(ctx context.Context, userID, spotID int64, text string, stars int) (*domain.Review, error) {
	if err := validateReviewInput(text, stars); err != nil {
		return nil, err
	}

	if err := s.ensureSpotExists(ctx, spotID); err != nil {
		return nil, err
	}

	stored, err := s.reviews.Create(ctx, &domain.Review{
		UserID: userID,
		SpotID: spotID,
		Review: strings.TrimSpace(text),
		Stars:  stars,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrReviewAlreadyExists
		}
		return nil, err
	}

	return s.reviews.GetByID(ctx, stored.ID)
}

func (s *ReviewService) ListForSpot(ctx context.Context, spotID int64) ([]domain.Review, error) {
	if err := s.ensureSpotExists(ctx, spotID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(reviews))
	for _, review := range reviews {
		ids = append(ids, review.ID)
	}
	if len(ids) > 0 {
		imageMap, err := s.images.ListByReviewIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range reviews {
			reviews[i].Images = imageMap[reviews[i].ID]
		}
	}
	return reviews, nil
}

func (s *ReviewService) Delete(ctx context.Context, userID, reviewID int64) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if isNotFound(err) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.UserID != userID {
		return ErrReviewForbidden
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if isNotFound(err) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *ReviewService) AddImage(ctx context.Context, userID, reviewID int64, url string) (*domain.ReviewImage, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &ValidationError{Fields: map[string]string{"url": "Image url is required"}}
	}
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrReviewForbidden
	}
	return s.images.Create(ctx, &domain.ReviewImage{ReviewID: reviewID, URL: url})
}

// PromptFor resolves which review affordance the client should render for a
// spot. It is a pure function of the viewer, the spot owner, and the viewer's
// existing review so the branching stays testable outside any handler.
func PromptFor(userID *int64, spot *domain.Spot, existing *domain.Review) domain.ReviewPromptState {
	switch {
	case userID == nil:
		return domain.ReviewPromptNotLoggedIn
	case spot.OwnerID == *userID:
		return domain.ReviewPromptOwner
	case existing != nil:
		return domain.ReviewPromptHasReview
	default:
		return domain.ReviewPromptCanReview
	}
}

// Prompt looks up the caller's review state for a spot. A nil userID stands
// for an anonymous viewer.
func (s *ReviewService) Prompt(ctx context.Context, userID *int64, spotID int64) (domain.ReviewPromptState, error) {
	spot, err := s.spots.FindByID(ctx, spotID)
	if err != nil {
		if isNotFound(err) {
			return "", ErrSpotNotFound
		}
		return "", err
	}

	var existing *domain.Review
	if userID != nil {
		review, err := s.reviews.FindByUserAndSpot(ctx, *userID, spotID)
		switch {
		case err == nil:
			existing = review
		case isNotFound(err):
		default:
			return "", err
		}
	}

	return PromptFor(userID, spot, existing), nil
}

func (s *ReviewService) ensureSpotExists(ctx context.Context, spotID int64) error {
	if _, err := s.spots.FindByID(ctx, spotID); err != nil {
		if isNotFound(err) {
			return ErrSpotNotFound
		}
		return err
	}
	return nil
}

func validateReviewInput(text string, stars int) error {
	errs := map[string]string{}
	if strings.TrimSpace(text) == "" {
		errs["review"] = "Review text is required"
	}
	if stars < 1 || stars > 5 {
		errs["stars"] = "Stars must be an integer from 1 to 5"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
