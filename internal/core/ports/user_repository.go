package ports

import (
	"context"

	"github.com/nexerp/authgate/internal/core/domain"
)

// UserRepository defines the persistence interface for ERP user accounts.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
