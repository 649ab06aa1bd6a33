package ports

import (
	"context"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/pricing"
)

// CreateOrderInput carries the order fields accepted from the customer.
// Price is the client-computed, distance-aware amount before the nocturnal surcharge.
// Nil WeightKg and Workers take the order defaults (1 kg, 1 worker); explicit
// zeros are kept.
type CreateOrderInput struct {
	SenderName      string
	SenderPhone     string
	ReceiverName    string
	ReceiverPhone   string
	PickupAddress   string
	DeliveryAddress string
	PackageType     string
	Description     string
	WeightKg        *float64
	DeclaredValue   float64
	VehicleType     string
	ServiceType     string
	Floors          int
	Workers         *int
	DistanceToTruck string
	DistanceKm      float64
	Price           float64
	Note            string

	UserID         string
	IdempotencyKey string
}

// CreateOrderResult is returned after order creation.
type CreateOrderResult struct {
	Order *domain.Order
	// AlreadyExisted is true when the Idempotency-Key matched an earlier order.
	AlreadyExisted bool
}

// OrderService defines use-case operations for orders.
type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error)
	Estimate(ctx context.Context, in pricing.QuoteInput) pricing.Quote
	Pay(ctx context.Context, id string) (*domain.Order, error)
	ResendInvoice(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status string) (*domain.Order, error)
	Cancel(ctx context.Context, id string) (*domain.Order, error)
	ListMine(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
	TrackingQR(ctx context.Context, order *domain.Order) ([]byte, error)
	InvoicePDF(ctx context.Context, order *domain.Order) ([]byte, error)
}
