package ports

import (
	"context"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
)

// PriceRepository persists the current tariff and its history.
type PriceRepository interface {
	Current(ctx context.Context) (*domain.PriceTable, error)
	SaveCurrent(ctx context.Context, p *domain.PriceTable) error
	AppendHistory(ctx context.Context, e *domain.PriceHistoryEntry) error
	LatestHistory(ctx context.Context) (*domain.PriceHistoryEntry, error)
	// Timeline returns every snapshot, newest first.
	Timeline(ctx context.Context) ([]*domain.PriceHistoryEntry, error)
}

// UpdatePriceInput is a partial tariff update; nil fields keep their value.
type UpdatePriceInput struct {
	BasePrice     *int64
	PerKmPrice    *int64
	OverweightFee *int64
	ExpressFee    *int64
	Note          string
	UpdatedBy     string
}

type PriceService interface {
	Current(ctx context.Context) (*domain.PriceTable, error)
	Latest(ctx context.Context) (*domain.PriceHistoryEntry, error)
	Timeline(ctx context.Context) ([]*domain.PriceHistoryEntry, error)
	Update(ctx context.Context, in UpdatePriceInput) (*domain.PriceTable, error)
}
