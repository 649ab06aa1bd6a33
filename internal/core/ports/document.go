package ports

import "github.com/vanchuyen/logistics-api/internal/core/domain"

// DocumentRenderer produces the printable artefacts of an order.
type DocumentRenderer interface {
	TrackingQR(orderID string) ([]byte, error)
	InvoicePDF(order *domain.Order) ([]byte, error)
}
