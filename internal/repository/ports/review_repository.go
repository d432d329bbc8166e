package ports

import (
	"context"

	"github.com/staylist/staylist-backend/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ListBySpot(ctx context.Context, spotID int64) ([]domain.Review, error)
	FindByUserAndSpot(ctx context.Context, userID, spotID int64) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
}
