package ports

import (
	"context"

	"github.com/staylist/staylist-backend/internal/domain"
)

type SpotImageRepository interface {
	// Create inserts the image. When preview is true any previously flagged
	// preview image for the spot is demoted inside the same transaction.
	Create(ctx context.Context, image *domain.SpotImage) (*domain.SpotImage, error)
	ListBySpot(ctx context.Context, spotID int64) ([]domain.SpotImage, error)
}
