package ports

import (
	"context"

	"github.com/staylist/staylist-backend/internal/domain"
)

type BookingRepository interface {
	// Create inserts the booking only when no confirmed booking for the same
	// spot overlaps [startDate, endDate); an overlap surfaces as ErrConflict.
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ListBySpot(ctx context.Context, spotID int64) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.BookingWithSpot, error)
}
