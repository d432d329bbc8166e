package ports

import (
	"context"

	"github.com/staylist/staylist-backend/internal/domain"
)

type SpotRepository interface {
	// ListWithAggregates returns every spot with avgRating and previewImage
	// resolved in the same query. A nil ownerID lists all spots; a non-nil
	// ownerID filters to that owner's spots in the WHERE clause.
	ListWithAggregates(ctx context.Context, ownerID *int64) ([]domain.SpotListItem, error)
	FindByID(ctx context.Context, id int64) (*domain.Spot, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Spot, error)
	RatingSummary(ctx context.Context, spotID int64) (*domain.SpotRatingSummary, error)
	Create(ctx context.Context, spot *domain.Spot) (*domain.Spot, error)
	Update(ctx context.Context, id int64, fields domain.SpotFields) (*domain.Spot, error)
	Delete(ctx context.Context, id int64) error
}
