package ports

import (
	"context"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
)

// UserRepository defines the account operations needed by administration and notifications.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
