package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
)

type stubPriceRepo struct {
	current *domain.PriceTable
	history []*domain.PriceHistoryEntry
	saveErr error
}

func (r *stubPriceRepo) Current(context.Context) (*domain.PriceTable, error) {
	if r.current == nil {
		return nil, domain.ErrPriceTableNotFound
	}
	clone := *r.current
	return &clone, nil
}

func (r *stubPriceRepo) SaveCurrent(_ context.Context, p *domain.PriceTable) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	clone := *p
	r.current = &clone
	return nil
}

func (r *stubPriceRepo) AppendHistory(_ context.Context, e *domain.PriceHistoryEntry) error {
	clone := *e
	r.history = append(r.history, &clone)
	return nil
}

func (r *stubPriceRepo) LatestHistory(context.Context) (*domain.PriceHistoryEntry, error) {
	if len(r.history) == 0 {
		return nil, domain.ErrPriceTableNotFound
	}
	return r.history[len(r.history)-1], nil
}

func (r *stubPriceRepo) Timeline(context.Context) ([]*domain.PriceHistoryEntry, error) {
	out := make([]*domain.PriceHistoryEntry, 0, len(r.history))
	for i := len(r.history) - 1; i >= 0; i-- {
		out = append(out, r.history[i])
	}
	return out, nil
}

func newPriceFixture() (*PriceService, *stubPriceRepo) {
	repo := &stubPriceRepo{}
	svc := NewPriceService(repo, discardLogger)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestPriceService_Current_SeedsDefaults(t *testing.T) {
	svc, repo := newPriceFixture()

	got, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BasePrice != 20000 || got.PerKmPrice != 5000 || got.OverweightFee != 10000 || got.ExpressFee != 15000 {
		t.Errorf("unexpected defaults %+v", got)
	}
	if len(repo.history) != 1 || repo.history[0].Note != domain.DefaultPriceNote {
		t.Errorf("expected one seeded history entry, got %+v", repo.history)
	}

	// Second read must not seed again.
	if _, err := svc.Current(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.history) != 1 {
		t.Errorf("expected history to stay at 1, got %d", len(repo.history))
	}
}

func TestPriceService_Latest_SeedsWhenEmpty(t *testing.T) {
	svc, _ := newPriceFixture()

	latest, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.BasePrice != 20000 || latest.Note != domain.DefaultPriceNote {
		t.Errorf("unexpected latest %+v", latest)
	}
}

func TestPriceService_Update_PartialAndHistory(t *testing.T) {
	svc, _ := newPriceFixture()
	if _, err := svc.Current(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	base := int64(25000)
	got, err := svc.Update(context.Background(), ports.UpdatePriceInput{
		BasePrice: &base,
		Note:      "Tăng giá nhiên liệu",
		UpdatedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BasePrice != 25000 {
		t.Errorf("expected base 25000, got %d", got.BasePrice)
	}
	if got.PerKmPrice != 5000 {
		t.Errorf("untouched field changed: %d", got.PerKmPrice)
	}

	timeline, err := svc.Timeline(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(timeline))
	}
	newest := timeline[0]
	if newest.BasePrice != 25000 || newest.UpdatedBy != "admin-1" || newest.Note != "Tăng giá nhiên liệu" {
		t.Errorf("expected the update first, got %+v", newest)
	}
	if timeline[1].Note != domain.DefaultPriceNote {
		t.Errorf("expected the seeded defaults last, got %+v", timeline[1])
	}
}

func TestPriceService_Update_SaveError(t *testing.T) {
	svc, repo := newPriceFixture()
	repo.saveErr = errors.New("mongo down")

	_, err := svc.Update(context.Background(), ports.UpdatePriceInput{})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(repo.history) != 0 {
		t.Error("history must not be written when the table save fails")
	}
}
