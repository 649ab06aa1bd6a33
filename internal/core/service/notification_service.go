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
)

type notificationService struct {
	orders ports.OrderRepository
	users  ports.UserRepository
	mailer ports.Mailer
	log    zerolog.Logger
}

// NewNotificationService returns a NotificationService implementation.
func NewNotificationService(
	orders ports.OrderRepository,
	users ports.UserRepository,
	mailer ports.Mailer,
	log zerolog.Logger,
) ports.NotificationService {
	return &notificationService{
		orders: orders,
		users:  users,
		mailer: mailer,
		log:    log,
	}
}

// Deliver loads the order and its owner, then sends the requested mail.
// Owners without an email address are skipped silently.
func (s *notificationService) Deliver(ctx context.Context, job ports.NotificationJob) error {
	start := time.Now()
	kind := string(job.Kind)

	// 1. Current order snapshot; status mails must reflect the latest state.
	order, err := s.orders.FindByID(ctx, job.OrderID)
	if err != nil {
		metrics.NotificationErrorsTotal.WithLabelValues(kind, "order_not_found").Inc()
		return fmt.Errorf("deliver %s: %w", kind, err)
	}

	// 2. Recipient.
	owner, err := s.users.FindByID(ctx, order.UserID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		metrics.NotificationErrorsTotal.WithLabelValues(kind, "user_lookup_failed").Inc()
		return fmt.Errorf("deliver %s: %w", kind, err)
	}
	if owner == nil || owner.Email == "" {
		s.log.Debug().Str("order_id", order.ID).Str("kind", kind).Msg("owner has no email, notification skipped")
		return nil
	}

	// 3. Send.
	switch job.Kind {
	case ports.NotifyInvoice:
		err = s.mailer.SendInvoice(ctx, owner.Email, order)
	case ports.NotifyStatus:
		err = s.mailer.SendStatus(ctx, owner.Email, order)
	default:
		err = fmt.Errorf("unknown notification kind %q", kind)
	}
	if err != nil {
		metrics.NotificationErrorsTotal.WithLabelValues(kind, "send_failed").Inc()
		return fmt.Errorf("deliver %s: %w", kind, err)
	}

	metrics.NotificationsSentTotal.WithLabelValues(kind).Inc()
	metrics.NotificationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	s.log.Info().
		Str("order_id", order.ID).
		Str("kind", kind).
		Str("status", string(order.Status)).
		Msg("notification sent")
	return nil
}
