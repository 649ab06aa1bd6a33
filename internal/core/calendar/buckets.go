package calendar

import "time"

// DayPart is a coarse slice of the civil day.
type DayPart string

const (
	Morning DayPart = "morning"
	Noon    DayPart = "noon"
	Evening DayPart = "evening"
)

// DayPartOf classifies ts by its civil hour: [5,12) morning, [12,18) noon,
// everything else evening (wrapping across midnight).
func DayPartOf(ts time.Time) DayPart {
	hour := ToCivil(ts).Hour()
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Noon
	default:
		return Evening
	}
}

const (
	RevenueLabelLow  = "0đ - <1 Triệu"
	RevenueLabelMid  = "1 Triệu - <10 Triệu"
	RevenueLabelHigh = ">= 10 Triệu"
)

// RevenueBoundaries are the lower bounds of the revenue buckets.
var RevenueBoundaries = []int64{0, 1_000_000, 10_000_000}

var revenueLabels = map[int64]string{
	0:          RevenueLabelLow,
	1_000_000:  RevenueLabelMid,
	10_000_000: RevenueLabelHigh,
}

// RevenueBucketFloor returns the lower bound of the bucket containing amount.
// Intervals are half-open and lower-inclusive; amounts below zero fall into the
// top bucket, matching the aggregation default the dashboard was built on.
func RevenueBucketFloor(amount int64) int64 {
	if amount < 0 {
		return RevenueBoundaries[len(RevenueBoundaries)-1]
	}
	floor := RevenueBoundaries[0]
	for _, b := range RevenueBoundaries {
		if amount >= b {
			floor = b
		}
	}
	return floor
}

// LabelRevenueBucket maps an amount to its human-readable bucket label.
func LabelRevenueBucket(amount int64) string {
	return revenueLabels[RevenueBucketFloor(amount)]
}

const (
	CountLabelNone = "0 đơn"
	CountLabelFew  = "1 - 9 đơn"
	CountLabelSome = "10 - 99 đơn"
	CountLabelMany = ">= 100 đơn"
)

// LabelCountBucket maps an order count to its label.
func LabelCountBucket(count int64) string {
	switch {
	case count >= 100:
		return CountLabelMany
	case count >= 10:
		return CountLabelSome
	case count >= 1:
		return CountLabelFew
	default:
		return CountLabelNone
	}
}
