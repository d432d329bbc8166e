package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/repository/ports"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
		INSERT INTO user_account (first_name, last_name, email, password_hash, password_salt)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, first_name, last_name, email, password_hash, password_salt, created_at, updated_at
	`
	row := r.db.QueryRowxContext(ctx, query, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.PasswordSalt)
	var stored domain.User
	if err := row.StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *UserRepository) UpsertGoogleUser(ctx context.Context, email, firstName, lastName string) (*domain.User, error) {
	const query = `
		INSERT INTO user_account (first_name, last_name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), user_account.first_name),
		    last_name = COALESCE(NULLIF(EXCLUDED.last_name, ''), user_account.last_name),
		    updated_at = NOW()
		RETURNING id, first_name, last_name, email, password_hash, password_salt, created_at, updated_at
	`
	row := r.db.QueryRowxContext(ctx, query, firstName, lastName, email)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
		SELECT id, first_name, last_name, email, password_hash, password_salt, created_at, updated_at
		FROM user_account
		WHERE email = $1
	`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
		SELECT id, first_name, last_name, email, password_hash, password_salt, created_at, updated_at
		FROM user_account
		WHERE id = $1
	`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
