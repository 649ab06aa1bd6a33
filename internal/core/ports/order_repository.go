package ports

import (
	"context"
	"time"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
)

// CreatedWindow bounds orders by created_at. A zero To leaves the window open-ended.
type CreatedWindow struct {
	From time.Time
	To   time.Time
}

// StatusBreakdown is one row of the per-status aggregation.
type StatusBreakdown struct {
	Status       string `json:"_id" bson:"_id"`
	Count        int64  `json:"count" bson:"count"`
	TotalRevenue int64  `json:"totalRevenue" bson:"totalRevenue"`
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	// MarkPaid flips is_paid only when it is still false; it returns
	// domain.ErrOrderAlreadyPaid otherwise.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id string) error

	// Statistics reads.
	SumRevenue(ctx context.Context, w CreatedWindow) (int64, error)
	Count(ctx context.Context, w CreatedWindow) (int64, error)
	ListCreatedIn(ctx context.Context, w CreatedWindow) ([]*domain.Order, error)
	GroupByStatus(ctx context.Context, w CreatedWindow) ([]StatusBreakdown, error)
}
