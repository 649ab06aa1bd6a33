// Package pricing computes shipment charges in VND.
package pricing

import (
	"math"
	"time"

	"github.com/vanchuyen/logistics-api/internal/core/calendar"
)

const (
	BaseFee      = 150_000
	PerFloorFee  = 20_000
	PerWorkerFee = 30_000
	PerKgFee     = 5_000

	// NocturnalMultiplier applies to orders placed between 22:00 and 05:00 civil time.
	NocturnalMultiplier = 1.2
	nocturnalFromHour   = 22
	nocturnalUntilHour  = 5
)

// QuoteInput carries the declared shipment attributes. DistanceMeters and the
// category labels are accepted but do not affect the quick estimate.
type QuoteInput struct {
	DistanceMeters float64
	WeightKg       float64
	Floors         int
	Workers        int
	VehicleType    string
	ServiceType    string
	PackageType    string
}

// Quote is the computed charge.
type Quote struct {
	TotalPrice int64 `json:"totalPrice"`
}

// Base returns the quick-estimate price before any time-of-day adjustment.
func Base(in QuoteInput) float64 {
	return BaseFee +
		float64(in.Floors)*PerFloorFee +
		float64(in.Workers)*PerWorkerFee +
		in.WeightKg*PerKgFee
}

// Estimate prices a shipment with the fixed quick-estimate coefficients and
// applies the nocturnal surcharge for the given instant.
func Estimate(in QuoteInput, now time.Time) Quote {
	return Quote{TotalPrice: ApplyNocturnal(Base(in), now)}
}

// IsNocturnal reports whether now falls in [22:00, 05:00) civil time.
func IsNocturnal(now time.Time) bool {
	hour := calendar.ToCivil(now).Hour()
	return hour >= nocturnalFromHour || hour < nocturnalUntilHour
}

// ApplyNocturnal rounds price to whole VND, multiplying by NocturnalMultiplier
// first when now is nocturnal. Amounts beyond the int64 range saturate at its
// bounds and NaN yields 0.
func ApplyNocturnal(price float64, now time.Time) int64 {
	if IsNocturnal(now) {
		price *= NocturnalMultiplier
	}
	return toVND(math.Round(price))
}

// toVND converts an already rounded amount without wrapping around.
// float64(math.MaxInt64) is exactly 2^63, one past the largest int64.
func toVND(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= float64(math.MaxInt64):
		return math.MaxInt64
	case v <= float64(math.MinInt64):
		return math.MinInt64
	}
	return int64(v)
}
