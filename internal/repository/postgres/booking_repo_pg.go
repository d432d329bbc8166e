package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/repository/ports"
)

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepo(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	// The insert carries its own overlap check so two racing requests cannot
	// both pass a separate existence query. The spot_booking_no_overlap
	// exclusion constraint backs this up at the schema level; either path
	// surfaces as a conflict to the service.
	const query = `
		INSERT INTO booking (spot_id, user_id, start_date, end_date)
		SELECT :spot_id, :user_id, :start_date, :end_date
		WHERE NOT EXISTS (
			SELECT 1 FROM booking b
			WHERE b.spot_id = :spot_id
			  AND b.start_date < :end_date
			  AND b.end_date > :start_date
		)
		RETURNING id, spot_id, user_id, start_date, end_date, created_at, updated_at
	`
	args := map[string]any{
		"spot_id":    booking.SpotID,
		"user_id":    booking.UserID,
		"start_date": booking.StartDate,
		"end_date":   booking.EndDate,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var stored domain.Booking
		if err := rows.StructScan(&stored); err != nil {
			return nil, err
		}
		return &stored, nil
	}
	// No row returned means the WHERE NOT EXISTS guard rejected the insert.
	return nil, sql.ErrNoRows
}

func (r *BookingRepository) ListBySpot(ctx context.Context, spotID int64) ([]domain.Booking, error) {
	const query = `
		SELECT id, spot_id, user_id, start_date, end_date, created_at, updated_at
		FROM booking
		WHERE spot_id = $1
		ORDER BY start_date, id
	`
	bookings := []domain.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, spotID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BookingWithSpot, error) {
	const query = `
		SELECT
			b.id, b.spot_id, b.user_id, b.start_date, b.end_date,
			b.created_at, b.updated_at,
			s.id AS "spot.id", s.owner_id AS "spot.owner_id",
			s.address AS "spot.address", s.city AS "spot.city",
			s.state AS "spot.state", s.country AS "spot.country",
			s.lat AS "spot.lat", s.lng AS "spot.lng",
			s.name AS "spot.name", s.description AS "spot.description",
			s.price AS "spot.price",
			s.created_at AS "spot.created_at", s.updated_at AS "spot.updated_at",
			(
				SELECT si.url FROM spot_image si
				WHERE si.spot_id = s.id AND si.preview
				ORDER BY si.id
				LIMIT 1
			) AS "spot.preview_image",
			(
				SELECT AVG(r.stars)::float8 FROM review r WHERE r.spot_id = s.id
			) AS "spot.avg_rating"
		FROM booking b
		JOIN spot s ON s.id = b.spot_id
		WHERE b.user_id = $1
		ORDER BY b.start_date, b.id
	`
	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.BookingWithSpot{}
	for rows.Next() {
		var row struct {
			domain.Booking
			Spot domain.SpotListItem `db:"spot"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		bookings = append(bookings, domain.BookingWithSpot{Booking: row.Booking, Spot: row.Spot})
	}
	return bookings, rows.Err()
}

var _ ports.BookingRepository = (*BookingRepository)(nil)
