package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanchuyen/logistics-api/internal/core/calendar"
	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
)

type StatsService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewStatsService(repo ports.OrderRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{repo: repo, logger: logger, now: time.Now}
}

// statsWindow is a resolved query: the created_at window plus the echo fields
// every response carries.
type statsWindow struct {
	window ports.CreatedWindow
	date   *string
	typ    string
}

// resolve turns a query into a window. An explicit date selects that closed
// civil day; otherwise the window runs from the start of the current period
// with no upper bound. The clock is read once.
func (s *StatsService) resolve(q ports.StatsQuery) (statsWindow, error) {
	if q.Date != "" {
		r, err := calendar.CivilDayRangeUTC(q.Date)
		if err != nil {
			return statsWindow{}, err
		}
		date := q.Date
		return statsWindow{
			window: ports.CreatedWindow{From: r.StartUTC, To: r.EndUTC},
			date:   &date,
			typ:    string(calendar.PeriodDay),
		}, nil
	}

	typ := q.Type
	if typ == "" {
		typ = string(calendar.PeriodDay)
	}
	return statsWindow{
		window: ports.CreatedWindow{From: calendar.PeriodStartUTC(calendar.Period(typ), s.now())},
		typ:    typ,
	}, nil
}

// Revenue sums order prices over the window.
func (s *StatsService) Revenue(ctx context.Context, q ports.StatsQuery) (*ports.RevenueStats, error) {
	w, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.SumRevenue(ctx, w.window)
	if err != nil {
		return nil, fmt.Errorf("revenue stats: %w", err)
	}
	return &ports.RevenueStats{Date: w.date, Type: w.typ, Revenue: revenue}, nil
}

// Orders counts orders over the window.
func (s *StatsService) Orders(ctx context.Context, q ports.StatsQuery) (*ports.OrderCountStats, error) {
	w, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.Count(ctx, w.window)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	return &ports.OrderCountStats{Date: w.date, Type: w.typ, Count: count}, nil
}

// DayParts splits one civil day's orders into morning, noon and evening.
func (s *StatsService) DayParts(ctx context.Context, date string) (*ports.DayPartStats, error) {
	if date == "" {
		return nil, fmt.Errorf("%w: date", domain.ErrMissingParameter)
	}
	r, err := calendar.CivilDayRangeUTC(date)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.ListCreatedIn(ctx, ports.CreatedWindow{From: r.StartUTC, To: r.EndUTC})
	if err != nil {
		return nil, fmt.Errorf("day part stats: %w", err)
	}

	out := &ports.DayPartStats{Date: date}
	for _, o := range orders {
		out.TotalOrders++
		out.TotalRevenue += o.Price

		var part *ports.DayPartTotals
		switch calendar.DayPartOf(o.CreatedAt) {
		case calendar.Morning:
			part = &out.Morning
		case calendar.Noon:
			part = &out.Noon
		default:
			part = &out.Evening
		}
		part.Count++
		part.Revenue += o.Price
	}
	return out, nil
}

// RevenueBuckets classifies each order price into a bucket, then labels the
// non-empty buckets.
func (s *StatsService) RevenueBuckets(ctx context.Context, q ports.StatsQuery) (*ports.RevenueBucketStats, error) {
	w, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListCreatedIn(ctx, w.window)
	if err != nil {
		return nil, fmt.Errorf("revenue bucket stats: %w", err)
	}

	byFloor := make(map[int64]ports.RevenueBucket)
	for _, o := range orders {
		floor := calendar.RevenueBucketFloor(o.Price)
		b := byFloor[floor]
		b.Bucket = floor
		b.Count++
		b.TotalRevenue += o.Price
		byFloor[floor] = b
	}

	results := make(map[string]ports.RevenueBucket, len(byFloor))
	for floor, b := range byFloor {
		b.BucketLabel = calendar.LabelRevenueBucket(floor)
		results[b.BucketLabel] = b
	}
	return &ports.RevenueBucketStats{Date: w.date, Type: w.typ, Results: results}, nil
}

// OrderCountBuckets labels the window's order count and adds a per-status breakdown.
func (s *StatsService) OrderCountBuckets(ctx context.Context, q ports.StatsQuery) (*ports.OrderCountBucketStats, error) {
	w, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, w.window)
	if err != nil {
		return nil, fmt.Errorf("order bucket stats: %w", err)
	}
	details, err := s.repo.GroupByStatus(ctx, w.window)
	if err != nil {
		return nil, fmt.Errorf("order bucket stats: %w", err)
	}
	if details == nil {
		details = []ports.StatusBreakdown{}
	}
	return &ports.OrderCountBucketStats{
		Date:            w.date,
		Type:            w.typ,
		TotalOrders:     total,
		Bucket:          calendar.LabelCountBucket(total),
		DetailsByStatus: details,
	}, nil
}
