package ports

import (
	"context"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
)

// NotificationKind selects which mail a job produces.
type NotificationKind string

const (
	NotifyInvoice NotificationKind = "invoice"
	NotifyStatus  NotificationKind = "status"
)

// NotificationJob asks for a mail about one order.
type NotificationJob struct {
	Kind    NotificationKind
	OrderID string
}

// NotificationEnqueuer hands jobs to the asynchronous dispatcher.
type NotificationEnqueuer interface {
	Enqueue(job NotificationJob)
}

// NotificationService resolves and delivers a single job.
type NotificationService interface {
	Deliver(ctx context.Context, job NotificationJob) error
}

// Mailer sends customer mails.
type Mailer interface {
	SendInvoice(ctx context.Context, to string, order *domain.Order) error
	SendStatus(ctx context.Context, to string, order *domain.Order) error
}

// IdempotencyStore remembers which order an Idempotency-Key produced.
// Claim is atomic: exactly one caller wins a free key. Lookup reports a key
// that is claimed but not completed as found with an empty orderID.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (claimed bool, err error)
	Lookup(ctx context.Context, key string) (orderID string, found bool, err error)
	Complete(ctx context.Context, key, orderID string) error
	Release(ctx context.Context, key string) error
}
