package ports

import (
	"context"
)

// StatsQuery selects the statistics window: an explicit civil Date (YYYY-MM-DD)
// wins over the Type keyword (day, week, month).
type StatsQuery struct {
	Date string
	Type string
}

// RevenueStats is the summed price over the window.
type RevenueStats struct {
	Date    *string `json:"date"`
	Type    string  `json:"type"`
	Revenue int64   `json:"revenue"`
}

// OrderCountStats is the number of orders in the window.
type OrderCountStats struct {
	Date  *string `json:"date"`
	Type  string  `json:"type"`
	Count int64   `json:"count"`
}

// DayPartTotals is the count and revenue for one slice of the day.
type DayPartTotals struct {
	Count   int64 `json:"count"`
	Revenue int64 `json:"revenue"`
}

// DayPartStats partitions one civil day into morning, noon and evening.
type DayPartStats struct {
	Date         string        `json:"date"`
	TotalOrders  int64         `json:"totalOrders"`
	TotalRevenue int64         `json:"totalRevenue"`
	Morning      DayPartTotals `json:"morning"`
	Noon         DayPartTotals `json:"noon"`
	Evening      DayPartTotals `json:"evening"`
}

// RevenueBucket aggregates the orders whose price falls in one bucket.
type RevenueBucket struct {
	Bucket       int64  `json:"bucket"`
	BucketLabel  string `json:"bucketLabel"`
	Count        int64  `json:"count"`
	TotalRevenue int64  `json:"totalRevenue"`
}

// RevenueBucketStats keys non-empty buckets by label.
type RevenueBucketStats struct {
	Date    *string                  `json:"date"`
	Type    string                   `json:"type"`
	Results map[string]RevenueBucket `json:"results"`
}

// OrderCountBucketStats labels the order count and breaks it down by status.
type OrderCountBucketStats struct {
	Date            *string           `json:"date"`
	Type            string            `json:"type"`
	TotalOrders     int64             `json:"totalOrders"`
	Bucket          string            `json:"bucket"`
	DetailsByStatus []StatusBreakdown `json:"detailsByStatus"`
}

// StatsService serves the administrator dashboard.
type StatsService interface {
	Revenue(ctx context.Context, q StatsQuery) (*RevenueStats, error)
	Orders(ctx context.Context, q StatsQuery) (*OrderCountStats, error)
	DayParts(ctx context.Context, date string) (*DayPartStats, error)
	RevenueBuckets(ctx context.Context, q StatsQuery) (*RevenueBucketStats, error)
	OrderCountBuckets(ctx context.Context, q StatsQuery) (*OrderCountBucketStats, error)
}
