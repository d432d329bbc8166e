package ports

import (
	"context"

	"github.com/staylist/staylist-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpsertGoogleUser(ctx context.Context, email, firstName, lastName string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}
