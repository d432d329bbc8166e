package service

import (
	"context"
	"errors"
	"time"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/repository/ports"
)

var (
	ErrBookingConflict = errors.New("spot is already booked for the specified dates")
	ErrBookingOwnSpot  = errors.New("owners cannot book their own spot")
)

type BookingService struct {
	bookings ports.BookingRepository
	spots    ports.SpotRepository
}

func NewBookingService(bookings ports.BookingRepository, spots ports.SpotRepository) *BookingService {
	return &BookingService{bookings: bookings, spots: spots}
}

// Create books a spot for [start, end). The repository insert refuses
// overlapping ranges atomically, so there is no window where two racing
// requests both succeed.
func (s *BookingService) Create(ctx context.Context, userID, spotID int64, start, end time.Time) (*domain.Booking, error) {
	if err := validateBookingDates(start, end); err != nil {
		return nil, err
	}

	spot, err := s.spots.FindByID(ctx, spotID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	if spot.OwnerID == userID {
		return nil, ErrBookingOwnSpot
	}

	booking, err := s.bookings.Create(ctx, &domain.Booking{
		SpotID:    spotID,
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		if isNotFound(err) || isExclusionViolation(err) {
			return nil, ErrBookingConflict
		}
		return nil, err
	}
	return booking, nil
}

// ListForSpot returns full bookings to the spot's owner and only the occupied
// date windows to everyone else.
func (s *BookingService) ListForSpot(ctx context.Context, requesterID, spotID int64) ([]domain.Booking, []domain.BookingWindow, error) {
	spot, err := s.spots.FindByID(ctx, spotID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrSpotNotFound
		}
		return nil, nil, err
	}

	bookings, err := s.bookings.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, nil, err
	}

	if spot.OwnerID == requesterID {
		return bookings, nil, nil
	}

	windows := make([]domain.BookingWindow, 0, len(bookings))
	for _, b := range bookings {
		windows = append(windows, domain.BookingWindow{
			SpotID:    b.SpotID,
			StartDate: b.StartDate,
			EndDate:   b.EndDate,
		})
	}
	return nil, windows, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID int64) ([]domain.BookingWithSpot, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func validateBookingDates(start, end time.Time) error {
	errs := map[string]string{}
	if start.IsZero() {
		errs["startDate"] = "Start date is required"
	}
	if end.IsZero() {
		errs["endDate"] = "End date is required"
	}
	if len(errs) == 0 && !end.After(start) {
		errs["endDate"] = "End date cannot be on or before start date"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
