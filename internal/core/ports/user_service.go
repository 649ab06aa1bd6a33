package ports

import (
	"context"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
)

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
