package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/repository/ports"
)

type SpotRepository struct {
	db *sqlx.DB
}

func NewSpotRepo(db *sqlx.DB) *SpotRepository {
	return &SpotRepository{db: db}
}

// spotAggregateQuery resolves avgRating and previewImage for every row in one
// round trip. AVG over the left join yields NULL for review-less spots, which
// scans into a nil *float64 instead of a fake zero rating.
const spotAggregateQuery = `
	SELECT
		s.id, s.owner_id, s.address, s.city, s.state, s.country,
		s.lat, s.lng, s.name, s.description, s.price,
		s.created_at, s.updated_at,
		AVG(r.stars)::float8 AS avg_rating,
		(
			SELECT si.url FROM spot_image si
			WHERE si.spot_id = s.id AND si.preview
			ORDER BY si.id
			LIMIT 1
		) AS preview_image
	FROM spot s
	LEFT JOIN review r ON r.spot_id = s.id
	%s
	GROUP BY s.id
	ORDER BY s.id
`

func (r *SpotRepository) ListWithAggregates(ctx context.Context, ownerID *int64) ([]domain.SpotListItem, error) {
	where := ""
	args := []any{}
	if ownerID != nil {
		where = "WHERE s.owner_id = $1"
		args = append(args, *ownerID)
	}

	query := fmt.Sprintf(spotAggregateQuery, where)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spots := []domain.SpotListItem{}
	for rows.Next() {
		var spot domain.SpotListItem
		if err := rows.StructScan(&spot); err != nil {
			return nil, err
		}
		spots = append(spots, spot)
	}
	return spots, rows.Err()
}

func (r *SpotRepository) FindByID(ctx context.Context, id int64) (*domain.Spot, error) {
	const query = `
		SELECT id, owner_id, address, city, state, country, lat, lng,
		       name, description, price, created_at, updated_at
		FROM spot
		WHERE id = $1
	`
	var spot domain.Spot
	if err := r.db.GetContext(ctx, &spot, query, id); err != nil {
		return nil, err
	}
	return &spot, nil
}

func (r *SpotRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Spot, error) {
	const query = `
		SELECT id, owner_id, address, city, state, country, lat, lng,
		       name, description, price, created_at, updated_at
		FROM spot
		WHERE id = $1 AND owner_id = $2
	`
	var spot domain.Spot
	if err := r.db.GetContext(ctx, &spot, query, id, ownerID); err != nil {
		return nil, err
	}
	return &spot, nil
}

func (r *SpotRepository) RatingSummary(ctx context.Context, spotID int64) (*domain.SpotRatingSummary, error) {
	const query = `
		SELECT COUNT(*)::int AS num_reviews, AVG(stars)::float8 AS avg_star_rating
		FROM review
		WHERE spot_id = $1
	`
	var summary domain.SpotRatingSummary
	if err := r.db.GetContext(ctx, &summary, query, spotID); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *SpotRepository) Create(ctx context.Context, spot *domain.Spot) (*domain.Spot, error) {
	const query = `
		INSERT INTO spot (owner_id, address, city, state, country, lat, lng, name, description, price)
		VALUES (:owner_id, :address, :city, :state, :country, :lat, :lng, :name, :description, :price)
		RETURNING id, owner_id, address, city, state, country, lat, lng, name, description, price, created_at, updated_at
	`
	args := map[string]any{
		"owner_id":    spot.OwnerID,
		"address":     spot.Address,
		"city":        spot.City,
		"state":       spot.State,
		"country":     spot.Country,
		"lat":         spot.Lat,
		"lng":         spot.Lng,
		"name":        spot.Name,
		"description": spot.Description,
		"price":       spot.Price,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var stored domain.Spot
		if err := rows.StructScan(&stored); err != nil {
			return nil, err
		}
		return &stored, nil
	}
	return nil, sql.ErrNoRows
}

func (r *SpotRepository) Update(ctx context.Context, id int64, fields domain.SpotFields) (*domain.Spot, error) {
	setParts := []string{"updated_at = NOW()"}
	args := []any{}
	idx := 1

	apply := func(column string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if fields.Address != nil {
		apply("address", *fields.Address)
	}
	if fields.City != nil {
		apply("city", *fields.City)
	}
	if fields.State != nil {
		apply("state", *fields.State)
	}
	if fields.Country != nil {
		apply("country", *fields.Country)
	}
	if fields.Lat != nil {
		apply("lat", *fields.Lat)
	}
	if fields.Lng != nil {
		apply("lng", *fields.Lng)
	}
	if fields.Name != nil {
		apply("name", *fields.Name)
	}
	if fields.Description != nil {
		apply("description", *fields.Description)
	}
	if fields.Price != nil {
		apply("price", *fields.Price)
	}

	query := fmt.Sprintf(`
		UPDATE spot
		SET %s
		WHERE id = $%d
		RETURNING id, owner_id, address, city, state, country, lat, lng, name, description, price, created_at, updated_at
	`, strings.Join(setParts, ", "), idx)
	args = append(args, id)

	var spot domain.Spot
	if err := r.db.GetContext(ctx, &spot, query, args...); err != nil {
		return nil, err
	}
	return &spot, nil
}

func (r *SpotRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM spot WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

var _ ports.SpotRepository = (*SpotRepository)(nil)
