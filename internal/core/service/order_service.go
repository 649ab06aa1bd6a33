package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanchuyen/logistics-api/internal/api/metrics"
	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
	"github.com/vanchuyen/logistics-api/internal/core/pricing"
)

type OrderService struct {
	repo        ports.OrderRepository
	users       ports.UserRepository
	idempotency ports.IdempotencyStore
	notify      ports.NotificationEnqueuer
	docs        ports.DocumentRenderer
	logger      zerolog.Logger
	now         func() time.Time

	// A request that loses the key claim polls for the winner's order
	// every idemPoll, for at most idemWait.
	idemPoll time.Duration
	idemWait time.Duration
}

func NewOrderService(
	repo ports.OrderRepository,
	users ports.UserRepository,
	idempotency ports.IdempotencyStore,
	notify ports.NotificationEnqueuer,
	docs ports.DocumentRenderer,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		repo:        repo,
		users:       users,
		idempotency: idempotency,
		notify:      notify,
		docs:        docs,
		logger:      logger,
		now:         time.Now,
		idemPoll:    50 * time.Millisecond,
		idemWait:    5 * time.Second,
	}
}

// Create stores a new order. The client-declared price is trusted as the base
// amount; only the nocturnal surcharge is re-derived here from the server clock.
// If the caller already used the idempotency key, the earlier order is
// returned without side effects. Keys are scoped per user. A duplicate that
// arrives while the first request is still creating waits for its order and
// fails with ErrRequestInProgress if it does not appear in time.
func (s *OrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	idemKey := ""
	if in.IdempotencyKey != "" {
		key := in.UserID + ":" + in.IdempotencyKey
		existing, owned, err := s.claim(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &ports.CreateOrderResult{Order: existing, AlreadyExisted: true}, nil
		}
		if owned {
			idemKey = key
		}
	}

	now := s.now().UTC()
	weight, workers := domain.DefaultWeightKg, domain.DefaultWorkers
	if in.WeightKg != nil {
		weight = *in.WeightKg
	}
	if in.Workers != nil {
		workers = *in.Workers
	}
	order := &domain.Order{
		UserID:          in.UserID,
		SenderName:      in.SenderName,
		SenderPhone:     in.SenderPhone,
		ReceiverName:    in.ReceiverName,
		ReceiverPhone:   in.ReceiverPhone,
		PickupAddress:   in.PickupAddress,
		DeliveryAddress: in.DeliveryAddress,
		PackageType:     in.PackageType,
		Description:     in.Description,
		WeightKg:        weight,
		DeclaredValue:   in.DeclaredValue,
		VehicleType:     in.VehicleType,
		ServiceType:     in.ServiceType,
		Floors:          in.Floors,
		Workers:         workers,
		DistanceToTruck: in.DistanceToTruck,
		DistanceKm:      in.DistanceKm,
		Price:           pricing.ApplyNocturnal(in.Price, now),
		PaymentMethod:   domain.DefaultPaymentMethod,
		Status:          domain.StatusPending,
		Note:            in.Note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		if idemKey != "" {
			if relErr := s.idempotency.Release(context.WithoutCancel(ctx), idemKey); relErr != nil {
				s.logger.Warn().Err(relErr).Str("idempotency_key", idemKey).Msg("failed to release idempotency key")
			}
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	if idemKey != "" {
		if err := s.idempotency.Complete(context.WithoutCancel(ctx), idemKey, order.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", idemKey).Msg("failed to store idempotency key")
		}
	}

	metrics.OrdersCreatedTotal.WithLabelValues(serviceLabel(order.ServiceType)).Inc()
	metrics.OrderPriceVND.Observe(float64(order.Price))
	s.notify.Enqueue(ports.NotificationJob{Kind: ports.NotifyInvoice, OrderID: order.ID})

	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Int64("price", order.Price).
		Bool("nocturnal", pricing.IsNocturnal(now)).
		Msg("order created")

	return &ports.CreateOrderResult{Order: order}, nil
}

// claim takes ownership of key or resolves the order an earlier request made
// with it. owned is false when the store is unreachable; the order is then
// created without idempotency.
func (s *OrderService) claim(ctx context.Context, key string) (existing *domain.Order, owned bool, err error) {
	log := s.logger.With().Str("idempotency_key", key).Logger()
	wait := time.NewTimer(s.idemWait)
	defer wait.Stop()
	poll := time.NewTicker(s.idemPoll)
	defer poll.Stop()

	for {
		claimed, err := s.idempotency.Claim(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("idempotency claim failed, creating anyway")
			return nil, false, nil
		}
		if claimed {
			return nil, true, nil
		}

		orderID, found, err := s.idempotency.Lookup(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("idempotency lookup failed, creating anyway")
			return nil, false, nil
		}
		if found && orderID != "" {
			order, err := s.repo.FindByID(ctx, orderID)
			if errors.Is(err, domain.ErrOrderNotFound) {
				// Deleted since; this request takes the key over on completion.
				log.Warn().Str("order_id", orderID).Msg("idempotent order vanished, creating anyway")
				return nil, true, nil
			}
			if err != nil {
				return nil, false, fmt.Errorf("idempotent replay: %w", err)
			}
			log.Info().Str("order_id", order.ID).Msg("idempotent replay")
			return order, false, nil
		}
		if !found {
			// Released or expired between Claim and Lookup.
			continue
		}

		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-wait.C:
			return nil, false, domain.ErrRequestInProgress
		case <-poll.C:
		}
	}
}

// Estimate returns the quick quote for the current instant.
func (s *OrderService) Estimate(_ context.Context, in pricing.QuoteInput) pricing.Quote {
	now := s.now()
	quote := pricing.Estimate(in, now)
	metrics.PriceQuotesTotal.WithLabelValues(boolLabel(pricing.IsNocturnal(now))).Inc()
	return quote
}

// Pay simulates a successful payment and confirms the order.
func (s *OrderService) Pay(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pay order: %w", err)
	}
	if order.IsPaid {
		return nil, domain.ErrOrderAlreadyPaid
	}

	paid, err := s.repo.MarkPaid(ctx, id, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("pay order: %w", err)
	}

	s.notify.Enqueue(ports.NotificationJob{Kind: ports.NotifyStatus, OrderID: paid.ID})
	s.logger.Info().Str("order_id", paid.ID).Msg("order paid")
	return paid, nil
}

// ResendInvoice queues a new invoice mail to the order owner.
func (s *OrderService) ResendInvoice(ctx context.Context, id string) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("resend invoice: %w", err)
	}

	owner, err := s.users.FindByID(ctx, order.UserID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("resend invoice: %w", err)
	}
	if owner == nil || owner.Email == "" {
		return domain.ErrNoRecipient
	}

	s.notify.Enqueue(ports.NotificationJob{Kind: ports.NotifyInvoice, OrderID: order.ID})
	return nil
}

// UpdateStatus sets any known status and notifies the owner.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status string) (*domain.Order, error) {
	next := domain.OrderStatus(status)
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	order, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(next)).Inc()
	s.notify.Enqueue(ports.NotificationJob{Kind: ports.NotifyStatus, OrderID: order.ID})
	return order, nil
}

// Cancel moves the order to cancelled without notifying.
func (s *OrderService) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.UpdateStatus(ctx, id, domain.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(domain.StatusCancelled)).Inc()
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// TrackingQR returns the PNG QR code linking to the order's public page.
func (s *OrderService) TrackingQR(_ context.Context, order *domain.Order) ([]byte, error) {
	png, err := s.docs.TrackingQR(order.ID)
	if err != nil {
		return nil, fmt.Errorf("order qr: %w", err)
	}
	return png, nil
}

// InvoicePDF renders the order's invoice.
func (s *OrderService) InvoicePDF(_ context.Context, order *domain.Order) ([]byte, error) {
	pdf, err := s.docs.InvoicePDF(order)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to render invoice")
		return nil, fmt.Errorf("order invoice: %w", err)
	}
	return pdf, nil
}

func serviceLabel(serviceType string) string {
	if serviceType == "" {
		return "standard"
	}
	return serviceType
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
