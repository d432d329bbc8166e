package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/repository/ports"
)

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepo(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	// The (user_id, spot_id) unique index is the duplicate guard; a 23505
	// from this insert is mapped to the conflict error by the service layer.
	const query = `
		INSERT INTO review (user_id, spot_id, review, stars)
		VALUES (:user_id, :spot_id, :review, :stars)
		RETURNING id, user_id, spot_id, review, stars, created_at, updated_at
	`
	args := map[string]any{
		"user_id": review.UserID,
		"spot_id": review.SpotID,
		"review":  review.Review,
		"stars":   review.Stars,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var stored domain.Review
		if err := rows.StructScan(&stored); err != nil {
			return nil, err
		}
		return &stored, nil
	}
	return nil, sql.ErrNoRows
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	const query = `
		SELECT
			r.id, r.user_id, r.spot_id, r.review, r.stars,
			r.created_at, r.updated_at,
			u.first_name AS author_first_name,
			u.last_name AS author_last_name
		FROM review r
		JOIN user_account u ON u.id = r.user_id
		WHERE r.id = $1
	`
	var review domain.Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) ListBySpot(ctx context.Context, spotID int64) ([]domain.Review, error) {
	const query = `
		SELECT
			r.id, r.user_id, r.spot_id, r.review, r.stars,
			r.created_at, r.updated_at,
			u.first_name AS author_first_name,
			u.last_name AS author_last_name
		FROM review r
		JOIN user_account u ON u.id = r.user_id
		WHERE r.spot_id = $1
		ORDER BY r.id
	`
	rows, err := r.db.QueryxContext(ctx, query, spotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var review domain.Review
		if err := rows.StructScan(&review); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) FindByUserAndSpot(ctx context.Context, userID, spotID int64) (*domain.Review, error) {
	const query = `
		SELECT id, user_id, spot_id, review, stars, created_at, updated_at
		FROM review
		WHERE user_id = $1 AND spot_id = $2
	`
	var review domain.Review
	if err := r.db.GetContext(ctx, &review, query, userID, spotID); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM review WHERE id = $1`
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

var _ ports.ReviewRepository = (*ReviewRepository)(nil)
