package ports

import (
	"context"

	"github.com/staylist/staylist-backend/internal/domain"
)

type ReviewImageRepository interface {
	Create(ctx context.Context, image *domain.ReviewImage) (*domain.ReviewImage, error)
	ListByReviewIDs(ctx context.Context, reviewIDs []int64) (map[int64][]domain.ReviewImage, error)
}
