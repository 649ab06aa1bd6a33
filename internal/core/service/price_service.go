package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
)

// PriceService manages the administrator tariff. Order pricing does not read it.
type PriceService struct {
	repo   ports.PriceRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewPriceService(repo ports.PriceRepository, logger zerolog.Logger) *PriceService {
	return &PriceService{repo: repo, logger: logger, now: time.Now}
}

// seedDefaults writes the default tariff and its first history entry when missing.
func (s *PriceService) seedDefaults(ctx context.Context) (*domain.PriceTable, error) {
	current, err := s.repo.Current(ctx)
	if errors.Is(err, domain.ErrPriceTableNotFound) {
		now := s.now().UTC()
		def := domain.DefaultPriceTable()
		def.CreatedAt, def.UpdatedAt = now, now
		if err := s.repo.SaveCurrent(ctx, &def); err != nil {
			return nil, fmt.Errorf("seed price table: %w", err)
		}
		current = &def
		s.logger.Info().Msg("default price table seeded")
	} else if err != nil {
		return nil, fmt.Errorf("seed price table: %w", err)
	}

	_, err = s.repo.LatestHistory(ctx)
	if errors.Is(err, domain.ErrPriceTableNotFound) {
		entry := historyFrom(current, domain.DefaultPriceNote, "", s.now().UTC())
		if err := s.repo.AppendHistory(ctx, entry); err != nil {
			return nil, fmt.Errorf("seed price history: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("seed price history: %w", err)
	}
	return current, nil
}

func (s *PriceService) Current(ctx context.Context) (*domain.PriceTable, error) {
	current, err := s.repo.Current(ctx)
	if errors.Is(err, domain.ErrPriceTableNotFound) {
		return s.seedDefaults(ctx)
	}
	return current, err
}

func (s *PriceService) Latest(ctx context.Context) (*domain.PriceHistoryEntry, error) {
	latest, err := s.repo.LatestHistory(ctx)
	if errors.Is(err, domain.ErrPriceTableNotFound) {
		if _, err := s.seedDefaults(ctx); err != nil {
			return nil, err
		}
		return s.repo.LatestHistory(ctx)
	}
	return latest, err
}

func (s *PriceService) Timeline(ctx context.Context) ([]*domain.PriceHistoryEntry, error) {
	timeline, err := s.repo.Timeline(ctx)
	if err != nil {
		return nil, err
	}
	if len(timeline) > 0 {
		return timeline, nil
	}
	if _, err := s.seedDefaults(ctx); err != nil {
		return nil, err
	}
	return s.repo.Timeline(ctx)
}

// Update applies the non-nil fields and appends a history snapshot.
func (s *PriceService) Update(ctx context.Context, in ports.UpdatePriceInput) (*domain.PriceTable, error) {
	now := s.now().UTC()
	current, err := s.repo.Current(ctx)
	if errors.Is(err, domain.ErrPriceTableNotFound) {
		current = &domain.PriceTable{CreatedAt: now}
	} else if err != nil {
		return nil, fmt.Errorf("update prices: %w", err)
	}

	if in.BasePrice != nil {
		current.BasePrice = *in.BasePrice
	}
	if in.PerKmPrice != nil {
		current.PerKmPrice = *in.PerKmPrice
	}
	if in.OverweightFee != nil {
		current.OverweightFee = *in.OverweightFee
	}
	if in.ExpressFee != nil {
		current.ExpressFee = *in.ExpressFee
	}
	current.UpdatedAt = now

	if err := s.repo.SaveCurrent(ctx, current); err != nil {
		return nil, fmt.Errorf("update prices: %w", err)
	}
	if err := s.repo.AppendHistory(ctx, historyFrom(current, in.Note, in.UpdatedBy, now)); err != nil {
		return nil, fmt.Errorf("update prices: history: %w", err)
	}

	s.logger.Info().Str("updated_by", in.UpdatedBy).Int64("base_price", current.BasePrice).Msg("price table updated")
	return current, nil
}

func historyFrom(p *domain.PriceTable, note, updatedBy string, at time.Time) *domain.PriceHistoryEntry {
	return &domain.PriceHistoryEntry{
		BasePrice:     p.BasePrice,
		PerKmPrice:    p.PerKmPrice,
		OverweightFee: p.OverweightFee,
		ExpressFee:    p.ExpressFee,
		Note:          note,
		UpdatedBy:     updatedBy,
		CreatedAt:     at,
	}
}
