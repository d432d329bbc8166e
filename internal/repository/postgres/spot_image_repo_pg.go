package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/repository/ports"
)

type SpotImageRepository struct {
	db *sqlx.DB
}

func NewSpotImageRepo(db *sqlx.DB) *SpotImageRepository {
	return &SpotImageRepository{db: db}
}

func (r *SpotImageRepository) Create(ctx context.Context, image *domain.SpotImage) (*domain.SpotImage, error) {
	stored, err := r.create(ctx, image)
	if err != nil && image.Preview && isPreviewConflict(err) {
		// Two concurrent preview inserts can each demote zero rows and then
		// race to the spot_image_one_preview index. The loser lands here
		// after the winner commits; the second pass demotes the committed
		// row before inserting.
		stored, err = r.create(ctx, image)
	}
	return stored, err
}

func (r *SpotImageRepository) create(ctx context.Context, image *domain.SpotImage) (*domain.SpotImage, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// A spot keeps at most one preview image. The demote runs in the same
	// transaction as the insert; the partial unique index backs it up.
	if image.Preview {
		const demote = `UPDATE spot_image SET preview = FALSE WHERE spot_id = $1 AND preview`
		if _, err := tx.ExecContext(ctx, demote, image.SpotID); err != nil {
			return nil, err
		}
	}

	const insert = `
		INSERT INTO spot_image (spot_id, url, preview)
		VALUES ($1, $2, $3)
		RETURNING id, spot_id, url, preview, created_at
	`
	var stored domain.SpotImage
	if err := tx.GetContext(ctx, &stored, insert, image.SpotID, image.URL, image.Preview); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &stored, nil
}

func isPreviewConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "spot_image_one_preview"
}

func (r *SpotImageRepository) ListBySpot(ctx context.Context, spotID int64) ([]domain.SpotImage, error) {
	const query = `
		SELECT id, spot_id, url, preview, created_at
		FROM spot_image
		WHERE spot_id = $1
		ORDER BY id
	`
	images := []domain.SpotImage{}
	if err := r.db.SelectContext(ctx, &images, query, spotID); err != nil {
		if err == sql.ErrNoRows {
			return images, nil
		}
		return nil, err
	}
	return images, nil
}

var _ ports.SpotImageRepository = (*SpotImageRepository)(nil)
