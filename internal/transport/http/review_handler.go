package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/service"
	"github.com/staylist/staylist-backend/internal/util"
)

const reviewNotFoundMessage = "Review couldn't be found"

type ReviewHandler struct {
	reviews *service.ReviewService
}

// ReviewResponse is a review with its author summary and images inlined, the
// shape the reviews list renders from.
type ReviewResponse struct {
	ID        int64                `json:"id"`
	UserID    int64                `json:"userId"`
	SpotID    int64                `json:"spotId"`
	Review    string               `json:"review"`
	Stars     int                  `json:"stars"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
	User      domain.UserSummary   `json:"User"`
	Images    []domain.ReviewImage `json:"ReviewImages"`
}

func RegisterReviews(e *echo.Echo, auth *service.AuthService, reviews *service.ReviewService) {
	handler := &ReviewHandler{reviews: reviews}

	public := e.Group("/api/spots/:spotId/reviews")
	public.GET("", handler.listReviews)

	protected := e.Group("/api/spots/:spotId/reviews", RequireAuth(auth))
	protected.POST("", handler.createReview)

	prompt := e.Group("/api/spots/:spotId/review-prompt", OptionalAuth(auth))
	prompt.GET("", handler.reviewPrompt)

	owner := e.Group("/api/reviews", RequireAuth(auth))
	owner.DELETE("/:reviewId", handler.deleteReview)
	owner.POST("/:reviewId/images", handler.addImage)
}

// createReview handles POST /api/spots/:spotId/reviews
func (h *ReviewHandler) createReview(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}
	spotID, err := parseSpotID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	}

	var req struct {
		Review string `json:"review"`
		Stars  int    `json:"stars"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body", http.StatusBadRequest))
	}

	review, err := h.reviews.Create(c.Request().Context(), user.ID, spotID, req.Review, req.Stars)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toReviewResponse(*review))
}

// listReviews handles GET /api/spots/:spotId/reviews
func (h *ReviewHandler) listReviews(c echo.Context) error {
	spotID, err := parseSpotID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	}

	reviews, err := h.reviews.ListForSpot(c.Request().Context(), spotID)
	if err != nil {
		return h.writeError(c, err)
	}

	responses := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, toReviewResponse(review))
	}
	return c.JSON(http.StatusOK, util.Data("Reviews", responses))
}

// reviewPrompt handles GET /api/spots/:spotId/review-prompt
func (h *ReviewHandler) reviewPrompt(c echo.Context) error {
	spotID, err := parseSpotID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	}

	var userID *int64
	if user, ok := CurrentUser(c); ok {
		userID = &user.ID
	}

	state, err := h.reviews.Prompt(c.Request().Context(), userID, spotID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("state", state))
}

// deleteReview handles DELETE /api/reviews/:reviewId
func (h *ReviewHandler) deleteReview(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}
	reviewID, err := strconv.ParseInt(c.Param("reviewId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error(reviewNotFoundMessage, http.StatusNotFound))
	}
	if err := h.reviews.Delete(c.Request().Context(), user.ID, reviewID); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Successfully deleted", "statusCode": http.StatusOK})
}

// addImage handles POST /api/reviews/:reviewId/images
func (h *ReviewHandler) addImage(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}
	reviewID, err := strconv.ParseInt(c.Param("reviewId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error(reviewNotFoundMessage, http.StatusNotFound))
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body", http.StatusBadRequest))
	}

	image, err := h.reviews.AddImage(c.Request().Context(), user.ID, reviewID, req.URL)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, image)
}

func (h *ReviewHandler) writeError(c echo.Context, err error) error {
	if verr, ok := service.AsValidationError(err); ok {
		return c.JSON(http.StatusBadRequest, util.ValidationFailed(http.StatusBadRequest, verr.Fields))
	}
	switch {
	case errors.Is(err, service.ErrSpotNotFound):
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	case errors.Is(err, service.ErrReviewNotFound):
		return c.JSON(http.StatusNotFound, util.Error(reviewNotFoundMessage, http.StatusNotFound))
	case errors.Is(err, service.ErrReviewAlreadyExists):
		// 403 rather than 409 is the documented API contract for duplicates.
		return c.JSON(http.StatusForbidden, util.Error("User already has a review for this spot", http.StatusForbidden))
	case errors.Is(err, service.ErrReviewForbidden):
		return c.JSON(http.StatusForbidden, util.Error("Forbidden", http.StatusForbidden))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("Internal server error", http.StatusInternalServerError))
	}
}

func toReviewResponse(review domain.Review) ReviewResponse {
	images := review.Images
	if images == nil {
		images = []domain.ReviewImage{}
	}
	return ReviewResponse{
		ID:        review.ID,
		UserID:    review.UserID,
		SpotID:    review.SpotID,
		Review:    review.Review,
		Stars:     review.Stars,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
		User:      review.Author(),
		Images:    images,
	}
}
