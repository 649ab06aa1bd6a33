package domain

import (
	"errors"
	"time"
)

var ErrPriceTableNotFound = errors.New("price table not found")

// PriceTable is the administrator-editable tariff. It is persisted and versioned
// but the order price formulas do not read it.
type PriceTable struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	BasePrice     int64     `json:"base_price" bson:"base_price"`
	PerKmPrice    int64     `json:"per_km_price" bson:"per_km_price"`
	OverweightFee int64     `json:"overweight_fee" bson:"overweight_fee"`
	ExpressFee    int64     `json:"express_fee" bson:"express_fee"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updated_at"`
}

// PriceHistoryEntry is an immutable snapshot written on every tariff change.
type PriceHistoryEntry struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	BasePrice     int64     `json:"base_price" bson:"base_price"`
	PerKmPrice    int64     `json:"per_km_price" bson:"per_km_price"`
	OverweightFee int64     `json:"overweight_fee" bson:"overweight_fee"`
	ExpressFee    int64     `json:"express_fee" bson:"express_fee"`
	Note          string    `json:"note" bson:"note"`
	UpdatedBy     string    `json:"updatedBy,omitempty" bson:"updated_by,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
}

// DefaultPriceTable is seeded the first time the tariff is read.
func DefaultPriceTable() PriceTable {
	return PriceTable{
		BasePrice:     20000,
		PerKmPrice:    5000,
		OverweightFee: 10000,
		ExpressFee:    15000,
	}
}

// DefaultPriceNote labels the seeded history entry.
const DefaultPriceNote = "Giá mặc định hệ thống"
