package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/repository/ports"
)

type ReviewImageRepository struct {
	db *sqlx.DB
}

func NewReviewImageRepo(db *sqlx.DB) *ReviewImageRepository {
	return &ReviewImageRepository{db: db}
}

func (r *ReviewImageRepository) Create(ctx context.Context, image *domain.ReviewImage) (*domain.ReviewImage, error) {
	const query = `
		INSERT INTO review_image (review_id, url)
		VALUES ($1, $2)
		RETURNING id, review_id, url, created_at
	`
	var stored domain.ReviewImage
	if err := r.db.GetContext(ctx, &stored, query, image.ReviewID, image.URL); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *ReviewImageRepository) ListByReviewIDs(ctx context.Context, reviewIDs []int64) (map[int64][]domain.ReviewImage, error) {
	result := make(map[int64][]domain.ReviewImage, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, review_id, url, created_at
		FROM review_image
		WHERE review_id IN (?)
		ORDER BY review_id, id
	`, reviewIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return result, nil
		}
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var image domain.ReviewImage
		if err := rows.StructScan(&image); err != nil {
			return nil, err
		}
		result[image.ReviewID] = append(result[image.ReviewID], image)
	}
	return result, rows.Err()
}

var _ ports.ReviewImageRepository = (*ReviewImageRepository)(nil)
